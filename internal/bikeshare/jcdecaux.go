// Package bikeshare fetches bike-station availability from JCDecaux
package bikeshare

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/randytsao24/letsgobiking/internal/models"
)

const DefaultJCDecauxURL = "https://api.jcdecaux.com/vls/v1"

// JCDecauxClient talks to the JCDecaux self-service bikes API
type JCDecauxClient struct {
	baseURL   string
	apiKey    string
	userAgent string
	client    *http.Client
}

// NewJCDecauxClient creates a new JCDecaux client
func NewJCDecauxClient(baseURL, apiKey, userAgent string, timeout time.Duration) *JCDecauxClient {
	if baseURL == "" {
		baseURL = DefaultJCDecauxURL
	}
	return &JCDecauxClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// FetchStations returns every station of a contract in API order
func (c *JCDecauxClient) FetchStations(ctx context.Context, contract string) ([]models.Station, error) {
	params := url.Values{}
	params.Set("contract", contract)

	var raw []stationResponse
	if err := c.get(ctx, "/stations", params, &raw); err != nil {
		return nil, err
	}

	stations := make([]models.Station, 0, len(raw))
	for _, s := range raw {
		stations = append(stations, models.Station{
			Name:           s.Name,
			AvailableBikes: max(s.AvailableBikes, 0),
			Capacity:       max(s.BikeStands, s.AvailableBikes, 0),
			Lat:            s.Position.Lat,
			Lon:            s.Position.Lng,
		})
	}
	return stations, nil
}

// FetchContracts returns the list of operator contracts
func (c *JCDecauxClient) FetchContracts(ctx context.Context) ([]models.Contract, error) {
	var raw []contractResponse
	if err := c.get(ctx, "/contracts", url.Values{}, &raw); err != nil {
		return nil, err
	}

	contracts := make([]models.Contract, 0, len(raw))
	for _, ct := range raw {
		contracts = append(contracts, models.Contract{
			Name:           ct.Name,
			CommercialName: ct.CommercialName,
			CountryCode:    ct.CountryCode,
			Cities:         ct.Cities,
		})
	}
	return contracts, nil
}

func (c *JCDecauxClient) get(ctx context.Context, path string, params url.Values, out any) error {
	slog.Debug("bike-share request", "path", path, "params", params.Encode())
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building station request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.NewError(models.KindUpstreamUnreachable, "bike-share service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := fmt.Sprintf("bike-share API returned status %d", resp.StatusCode)
		if apiErr.Error != "" {
			msg += ": " + apiErr.Error
		}
		return models.NewError(models.KindStationFetchFailed, msg, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.NewError(models.KindStationFetchFailed, "malformed bike-share response", err)
	}
	return nil
}

// API response structures
type stationResponse struct {
	Number         int    `json:"number"`
	ContractName   string `json:"contract_name"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	BikeStands     int    `json:"bike_stands"`
	AvailableBikes int    `json:"available_bikes"`
	Status         string `json:"status"`
	Position       struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"position"`
}

type contractResponse struct {
	Name           string   `json:"name"`
	CommercialName string   `json:"commercial_name"`
	CountryCode    string   `json:"country_code"`
	Cities         []string `json:"cities"`
}
