// Package location handles coordinates, distances and geocoding
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/randytsao24/letsgobiking/internal/models"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	MinSearchLength     = 3
	DefaultSearchLimit  = 5
)

// GeocoderConfig holds Nominatim client settings
type GeocoderConfig struct {
	BaseURL        string
	UserAgent      string
	CountryCodes   string
	RequestsPerSec float64
	Timeout        time.Duration
}

// Geocoder resolves coordinates to area names using OSM Nominatim
type Geocoder struct {
	baseURL      string
	userAgent    string
	countryCodes string
	client       *http.Client
	limiter      *rate.Limiter
}

// NewGeocoder creates a Nominatim client. Nominatim's usage policy allows
// one request per second, which is the default rate.
func NewGeocoder(cfg GeocoderConfig) *Geocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Geocoder{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:    cfg.UserAgent,
		countryCodes: cfg.CountryCodes,
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
	}
}

// ReverseGeocode returns the city, municipality, town or village name at a
// point, in that order of preference.
func (g *Geocoder) ReverseGeocode(ctx context.Context, p models.Point) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	params.Set("format", "json")

	var result reverseResponse
	if err := g.get(ctx, "/reverse", params, &result); err != nil {
		return "", err
	}

	area := result.Address.areaName()
	if area == "" {
		msg := "no city, municipality, town or village at " + p.String()
		if result.Error != "" {
			msg += " (" + result.Error + ")"
		}
		return "", models.NewError(models.KindLocationNotResolved, msg, nil)
	}

	slog.Debug("reverse geocoded", "point", p.String(), "area", area)
	return area, nil
}

// Search returns up to limit address suggestions for a free-text query.
// Queries shorter than MinSearchLength return no results.
func (g *Geocoder) Search(ctx context.Context, query string, limit int) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return []models.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}

	var results []searchResult
	if err := g.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			DisplayName: r.DisplayName,
			Lat:         lat,
			Lon:         lon,
		})
	}
	return suggestions, nil
}

func (g *Geocoder) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return models.NewError(models.KindUpstreamUnreachable, "geocoding rate limit wait aborted", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building geocoding request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return models.NewError(models.KindUpstreamUnreachable, "geocoding service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.NewError(models.KindUpstreamUnreachable,
			fmt.Sprintf("geocoding service returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.NewError(models.KindLocationNotResolved, "malformed geocoding response", err)
	}
	return nil
}

// API response structures
type reverseResponse struct {
	Error   string         `json:"error"`
	Address reverseAddress `json:"address"`
}

type reverseAddress struct {
	City         string `json:"city"`
	Municipality string `json:"municipality"`
	Town         string `json:"town"`
	Village      string `json:"village"`
}

func (a reverseAddress) areaName() string {
	for _, name := range []string{a.City, a.Municipality, a.Town, a.Village} {
		if name != "" {
			return name
		}
	}
	return ""
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
