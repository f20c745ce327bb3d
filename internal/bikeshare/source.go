package bikeshare

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/randytsao24/letsgobiking/internal/cache"
	"github.com/randytsao24/letsgobiking/internal/models"
)

const (
	DefaultStationTTL  = 5 * time.Minute
	DefaultContractTTL = 24 * time.Hour

	stationKeyPrefix = "jcdecaux-stations-"
	contractsKey     = "jcdecaux-contracts"
)

// errNoContracts keeps an empty contract list out of the cache
var errNoContracts = errors.New("contract list is empty")

// Upstream is the raw station feed
type Upstream interface {
	FetchStations(ctx context.Context, contract string) ([]models.Station, error)
	FetchContracts(ctx context.Context) ([]models.Contract, error)
}

// CachedSource serves stations per area through a shared expiring cache so
// repeated lookups for one area hit the rate-limited API at most once per TTL.
type CachedSource struct {
	upstream     Upstream
	stations     *cache.Cache[string, []models.Station]
	contracts    *cache.Cache[string, []models.Contract]
	stationTTL   time.Duration
	contractTTL  time.Duration
	resolveAreas bool
}

// SourceConfig configures a CachedSource
type SourceConfig struct {
	StationTTL  time.Duration
	ContractTTL time.Duration
	// ResolveContracts maps geocoded area names to JCDecaux contracts
	// through the contracts list. When false the area is the contract.
	ResolveContracts bool
}

// NewCachedSource wraps upstream with the given station cache. The cache may
// be shared with other consumers as long as their keys are namespaced.
func NewCachedSource(upstream Upstream, stations *cache.Cache[string, []models.Station], cfg SourceConfig) *CachedSource {
	if cfg.StationTTL <= 0 {
		cfg.StationTTL = DefaultStationTTL
	}
	if cfg.ContractTTL <= 0 {
		cfg.ContractTTL = DefaultContractTTL
	}
	return &CachedSource{
		upstream:     upstream,
		stations:     stations,
		contracts:    cache.New[string, []models.Contract](),
		stationTTL:   cfg.StationTTL,
		contractTTL:  cfg.ContractTTL,
		resolveAreas: cfg.ResolveContracts,
	}
}

// FetchStations returns the stations serving an area. An area no contract
// covers yields an empty slice, not an error.
func (s *CachedSource) FetchStations(ctx context.Context, area string) ([]models.Station, error) {
	contract, ok := s.contractFor(ctx, area)
	if !ok {
		slog.Debug("no bike-share contract for area", "area", area)
		return []models.Station{}, nil
	}

	key := stationKeyPrefix + strings.ToLower(contract)
	hit := true
	stations, err := s.stations.GetOrFetch(key, s.stationTTL, func() ([]models.Station, error) {
		hit = false
		return s.upstream.FetchStations(ctx, contract)
	})
	if err != nil {
		return nil, models.Classify(err, models.KindStationFetchFailed, "fetching stations for "+area)
	}

	slog.Debug("stations", "area", area, "contract", contract, "count", len(stations), "cache_hit", hit)
	return stations, nil
}

// contractFor resolves an area to a contract name. If the contract list is
// unavailable or empty the area name is used as is.
func (s *CachedSource) contractFor(ctx context.Context, area string) (string, bool) {
	if !s.resolveAreas {
		return area, true
	}

	contracts, err := s.contracts.GetOrFetch(contractsKey, s.contractTTL, func() ([]models.Contract, error) {
		contracts, err := s.upstream.FetchContracts(ctx)
		if err == nil && len(contracts) == 0 {
			return nil, errNoContracts
		}
		return contracts, err
	})
	if err != nil {
		slog.Warn("contract list unavailable, using area as contract", "area", area, "error", err)
		return area, true
	}

	return MatchContract(contracts, area)
}

// MatchContract finds the contract whose name or city list contains area,
// ignoring case. Name matches take precedence over city matches.
func MatchContract(contracts []models.Contract, area string) (string, bool) {
	for _, c := range contracts {
		if strings.EqualFold(c.Name, area) {
			return c.Name, true
		}
	}
	for _, c := range contracts {
		for _, city := range c.Cities {
			if strings.EqualFold(city, area) {
				return c.Name, true
			}
		}
	}
	return "", false
}
