package routing

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/twpayne/go-polyline"

	"github.com/randytsao24/letsgobiking/internal/models"
)

var (
	origin      = models.Point{Lat: 45.75, Lon: 4.85}
	destination = models.Point{Lat: 45.77, Lon: 4.87}
)

func directionsBody(t *testing.T) string {
	t.Helper()
	geometry := polyline.EncodeCoords([][]float64{{45.75, 4.85}, {45.76, 4.86}, {45.77, 4.87}})
	body := map[string]any{
		"routes": []any{
			map[string]any{
				"summary":  map[string]any{"distance": 3000.5, "duration": 1500.0},
				"geometry": string(geometry),
				"segments": []any{
					map[string]any{
						"distance": 1000.5, "duration": 500.0,
						"steps": []any{
							map[string]any{"distance": 600.0, "duration": 300.0, "type": 11, "instruction": "Head north", "name": "Rue A"},
							map[string]any{"distance": 400.5, "duration": 200.0, "type": 10, "instruction": "Arrive", "name": "-"},
						},
					},
					map[string]any{"distance": 2000.0, "duration": 1000.0, "steps": []any{}},
				},
			},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestComputeRoute(t *testing.T) {
	tests := []struct {
		profile models.Profile
		path    string
	}{
		{models.ProfileWalk, "/v2/directions/foot-walking"},
		{models.ProfileBike, "/v2/directions/cycling-regular"},
	}

	for _, tc := range tests {
		t.Run(string(tc.profile), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if r.URL.Path != tc.path {
					t.Errorf("path = %s, want %s", r.URL.Path, tc.path)
				}
				if r.URL.Query().Get("language") != "fr" {
					t.Errorf("language = %q, want fr", r.URL.Query().Get("language"))
				}
				if r.Header.Get("Authorization") != "ors-key" {
					t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
				}

				raw, _ := io.ReadAll(r.Body)
				var req directionsRequest
				if err := json.Unmarshal(raw, &req); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				want := [][2]float64{{4.85, 45.75}, {4.87, 45.77}}
				if len(req.Coordinates) != 2 || req.Coordinates[0] != want[0] || req.Coordinates[1] != want[1] {
					t.Errorf("coordinates = %v, want %v (lon, lat)", req.Coordinates, want)
				}

				w.Write([]byte(directionsBody(t)))
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, APIKey: "ors-key", Language: "fr"})
			leg, err := c.ComputeRoute(context.Background(), origin, destination, tc.profile)
			if err != nil {
				t.Fatalf("ComputeRoute: %v", err)
			}

			if leg.Profile != tc.profile {
				t.Errorf("profile = %q, want %q", leg.Profile, tc.profile)
			}
			if leg.DistanceMeters != 3000.5 {
				t.Errorf("distance = %v, want 3000.5", leg.DistanceMeters)
			}
			if leg.DurationSeconds != 1500 {
				t.Errorf("duration = %v, want 1500", leg.DurationSeconds)
			}
			if len(leg.Steps) != 2 || leg.Steps[0].Instruction != "Head north" {
				t.Errorf("steps = %+v", leg.Steps)
			}
			if len(leg.Geometry) != 3 {
				t.Fatalf("geometry len = %d, want 3", len(leg.Geometry))
			}
			if math.Abs(leg.Geometry[1].Lat-45.76) > 1e-5 || math.Abs(leg.Geometry[1].Lon-4.86) > 1e-5 {
				t.Errorf("geometry[1] = %v, want (45.76, 4.86)", leg.Geometry[1])
			}
			if leg.Origin != origin || leg.Destination != destination {
				t.Errorf("endpoints = %v -> %v", leg.Origin, leg.Destination)
			}
		})
	}
}

func TestComputeRouteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusNotFound, `{"error":{"code":2010,"message":"Could not find routable point"}}`},
		{"empty routes", http.StatusOK, `{"routes":[]}`},
		{"malformed", http.StatusOK, `<html>`},
		{"bad geometry", http.StatusOK, `{"routes":[{"segments":[],"geometry":"~"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
			_, err := c.ComputeRoute(context.Background(), origin, destination, models.ProfileWalk)
			if kind := models.KindOf(err); kind != models.KindRouteUnavailable {
				t.Errorf("kind = %q, want %q (err: %v)", kind, models.KindRouteUnavailable, err)
			}
		})
	}
}

func TestComputeRouteUnsupportedProfile(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := c.ComputeRoute(context.Background(), origin, destination, models.Profile("scooter"))
	if kind := models.KindOf(err); kind != models.KindRouteUnavailable {
		t.Errorf("kind = %q, want %q", kind, models.KindRouteUnavailable)
	}
}

func TestComputeRouteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.ComputeRoute(context.Background(), origin, destination, models.ProfileBike)
	if kind := models.KindOf(err); kind != models.KindUpstreamUnreachable {
		t.Errorf("kind = %q, want %q", kind, models.KindUpstreamUnreachable)
	}
}
