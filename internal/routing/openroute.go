// Package routing computes point-to-point routes with OpenRouteService
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/randytsao24/letsgobiking/internal/models"
)

const DefaultORSURL = "https://api.openrouteservice.org"

// orsProfiles maps travel profiles to OpenRouteService profile names
var orsProfiles = map[models.Profile]string{
	models.ProfileWalk: "foot-walking",
	models.ProfileBike: "cycling-regular",
}

// Client is an OpenRouteService directions client
type Client struct {
	baseURL   string
	apiKey    string
	language  string
	userAgent string
	client    *http.Client
}

// Config holds OpenRouteService client settings
type Config struct {
	BaseURL   string
	APIKey    string
	Language  string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new directions client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultORSURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		language:  cfg.Language,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// ComputeRoute returns the first route between two points for a profile
func (c *Client) ComputeRoute(ctx context.Context, origin, destination models.Point, profile models.Profile) (models.RouteLeg, error) {
	orsProfile, ok := orsProfiles[profile]
	if !ok {
		return models.RouteLeg{}, models.NewError(models.KindRouteUnavailable, fmt.Sprintf("unsupported profile %q", profile), nil)
	}

	// ORS expects [lon, lat] pairs
	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{
			{origin.Lon, origin.Lat},
			{destination.Lon, destination.Lat},
		},
	})
	if err != nil {
		return models.RouteLeg{}, fmt.Errorf("encoding directions request: %w", err)
	}

	endpoint := c.baseURL + "/v2/directions/" + orsProfile
	if c.language != "" {
		endpoint += "?" + url.Values{"language": {c.language}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.RouteLeg{}, fmt.Errorf("building directions request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.RouteLeg{}, models.NewError(models.KindUpstreamUnreachable, "routing service unreachable", err)
	}
	defer resp.Body.Close()

	var result directionsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("routing service returned status %d", resp.StatusCode)
		if decodeErr == nil && result.Error != nil && result.Error.Message != "" {
			msg += ": " + result.Error.Message
		}
		return models.RouteLeg{}, models.NewError(models.KindRouteUnavailable, msg, nil)
	}
	if decodeErr != nil {
		return models.RouteLeg{}, models.NewError(models.KindRouteUnavailable, "malformed routing response", decodeErr)
	}
	if len(result.Routes) == 0 {
		return models.RouteLeg{}, models.NewError(models.KindRouteUnavailable, "no route between "+origin.String()+" and "+destination.String(), nil)
	}

	leg, err := toLeg(result.Routes[0], origin, destination, profile)
	if err != nil {
		return models.RouteLeg{}, models.NewError(models.KindRouteUnavailable, "malformed route geometry", err)
	}

	slog.Debug("route computed",
		"profile", profile,
		"distance_m", leg.DistanceMeters,
		"duration_s", leg.DurationSeconds,
	)
	return leg, nil
}

func toLeg(r route, origin, destination models.Point, profile models.Profile) (models.RouteLeg, error) {
	leg := models.RouteLeg{
		Origin:      origin,
		Destination: destination,
		Profile:     profile,
		Geometry:    []models.Point{},
		Steps:       []models.Step{},
	}

	for _, seg := range r.Segments {
		leg.DistanceMeters += seg.Distance
		leg.DurationSeconds += seg.Duration
		for _, st := range seg.Steps {
			leg.Steps = append(leg.Steps, models.Step{
				Instruction:     st.Instruction,
				DistanceMeters:  st.Distance,
				DurationSeconds: st.Duration,
			})
		}
	}

	if r.Geometry != "" {
		coords, _, err := polyline.DecodeCoords([]byte(r.Geometry))
		if err != nil {
			return models.RouteLeg{}, err
		}
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			leg.Geometry = append(leg.Geometry, models.Point{Lat: c[0], Lon: c[1]})
		}
	}

	return leg, nil
}

// API request/response structures
type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []route    `json:"routes"`
	Error  *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type route struct {
	Summary struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"summary"`
	Segments []segment `json:"segments"`
	Geometry string    `json:"geometry"`
}

type segment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Steps    []step  `json:"steps"`
}

type step struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Type        int     `json:"type"`
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
}
