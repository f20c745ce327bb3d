// Package itinerary decides between walking and bike-assisted routes.
//
// A request resolves both endpoints to area names, loads the stations of
// each area, picks the nearest station with a bike near the origin and the
// nearest station with a free dock near the destination, then compares the
// direct walking route against walk + ride + walk.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/randytsao24/letsgobiking/internal/location"
	"github.com/randytsao24/letsgobiking/internal/models"
)

// GeocodeProvider resolves a coordinate to an area name
type GeocodeProvider interface {
	ReverseGeocode(ctx context.Context, p models.Point) (string, error)
}

// StationProvider returns the stations of an area, in provider order
type StationProvider interface {
	FetchStations(ctx context.Context, area string) ([]models.Station, error)
}

// RouteProvider computes one route leg for a profile
type RouteProvider interface {
	ComputeRoute(ctx context.Context, origin, destination models.Point, profile models.Profile) (models.RouteLeg, error)
}

// Engine computes itinerary decisions. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	geocoder GeocodeProvider
	stations StationProvider
	routes   RouteProvider
	newID    func() string
}

// NewEngine wires the engine to its providers
func NewEngine(geocoder GeocodeProvider, stations StationProvider, routes RouteProvider) *Engine {
	return &Engine{
		geocoder: geocoder,
		stations: stations,
		routes:   routes,
		newID:    uuid.NewString,
	}
}

// ComputeItinerary builds points from raw coordinates and runs Compute
func (e *Engine) ComputeItinerary(ctx context.Context, originLat, originLon, destLat, destLon float64, allowBike bool) (*models.ItineraryDecision, error) {
	return e.Compute(ctx,
		models.Point{Lat: originLat, Lon: originLon},
		models.Point{Lat: destLat, Lon: destLon},
		allowBike,
	)
}

// Compute returns the recommended itinerary between two points. Every
// failure is returned as a *models.Error; no partial decision is returned.
func (e *Engine) Compute(ctx context.Context, origin, destination models.Point, allowBike bool) (decision *models.ItineraryDecision, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic computing itinerary", "error", r, "stack", string(debug.Stack()))
			decision = nil
			err = models.NewError(models.KindUnexpected, "unexpected failure computing itinerary", fmt.Errorf("%v", r))
		}
	}()

	if !location.ValidCoordinate(origin.Lat, origin.Lon) {
		return nil, models.NewError(models.KindInvalidCoordinate, "origin coordinates out of range: "+origin.String(), nil)
	}
	if !location.ValidCoordinate(destination.Lat, destination.Lon) {
		return nil, models.NewError(models.KindInvalidCoordinate, "destination coordinates out of range: "+destination.String(), nil)
	}

	id := e.newID()
	log := slog.With("itinerary_id", id)

	originArea, destArea, err := e.resolveAreas(ctx, origin, destination)
	if err != nil {
		return nil, interrupted(ctx, err)
	}
	log.Debug("areas resolved", "origin_area", originArea, "destination_area", destArea)

	originStations, destStations, err := e.fetchStations(ctx, originArea, destArea)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	originStation, destStation, found := selectStations(origin, destination, originStations, destStations)
	useStations := found && allowBike

	plan, err := e.computeLegs(ctx, origin, destination, originStation, destStation, useStations)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	decision = decide(plan, originStation, destStation, useStations, allowBike)
	decision.ID = id

	log.Info("itinerary decided",
		"mode", decision.Mode,
		"origin_area", originArea,
		"destination_area", destArea,
		"stations_found", found,
		"walk_seconds", plan.walk.DurationSeconds,
		"bike_seconds", plan.bikeSeconds(),
		"total_seconds", decision.TotalSeconds(),
	)
	return decision, nil
}

func (e *Engine) resolveAreas(ctx context.Context, origin, destination models.Point) (string, string, error) {
	var originArea, destArea string

	g, gctx := errgroup.WithContext(ctx)
	goSafe(g, func() error {
		area, err := e.geocoder.ReverseGeocode(gctx, origin)
		if err != nil {
			return models.Classify(err, models.KindLocationNotResolved, "resolving origin area")
		}
		originArea = area
		return nil
	})
	goSafe(g, func() error {
		area, err := e.geocoder.ReverseGeocode(gctx, destination)
		if err != nil {
			return models.Classify(err, models.KindLocationNotResolved, "resolving destination area")
		}
		destArea = area
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return originArea, destArea, nil
}

func (e *Engine) fetchStations(ctx context.Context, originArea, destArea string) ([]models.Station, []models.Station, error) {
	var originStations, destStations []models.Station

	g, gctx := errgroup.WithContext(ctx)
	goSafe(g, func() error {
		stations, err := e.stations.FetchStations(gctx, originArea)
		if err != nil {
			return models.Classify(err, models.KindStationFetchFailed, "fetching stations for "+originArea)
		}
		originStations = stations
		return nil
	})
	goSafe(g, func() error {
		stations, err := e.stations.FetchStations(gctx, destArea)
		if err != nil {
			return models.Classify(err, models.KindStationFetchFailed, "fetching stations for "+destArea)
		}
		destStations = stations
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return originStations, destStations, nil
}

// legPlan holds the computed legs of one request
type legPlan struct {
	walk models.RouteLeg
	bike []models.RouteLeg // origin->station, station->station, station->destination
}

func (p legPlan) bikeSeconds() float64 {
	var total float64
	for _, leg := range p.bike {
		total += leg.DurationSeconds
	}
	return total
}

func (p legPlan) bikeMeters() float64 {
	var total float64
	for _, leg := range p.bike {
		total += leg.DistanceMeters
	}
	return total
}

// computeLegs always computes the direct walking leg, and the three
// bike-assisted legs when stations are in use.
func (e *Engine) computeLegs(ctx context.Context, origin, destination models.Point, originStation, destStation *models.Station, useStations bool) (legPlan, error) {
	var plan legPlan

	g, gctx := errgroup.WithContext(ctx)
	route := func(dst *models.RouteLeg, from, to models.Point, profile models.Profile) {
		goSafe(g, func() error {
			leg, err := e.routes.ComputeRoute(gctx, from, to, profile)
			if err != nil {
				return models.Classify(err, models.KindRouteUnavailable, fmt.Sprintf("computing %s route", profile))
			}
			*dst = leg
			return nil
		})
	}

	route(&plan.walk, origin, destination, models.ProfileWalk)
	if useStations {
		plan.bike = make([]models.RouteLeg, 3)
		route(&plan.bike[0], origin, originStation.Point(), models.ProfileWalk)
		route(&plan.bike[1], originStation.Point(), destStation.Point(), models.ProfileBike)
		route(&plan.bike[2], destStation.Point(), destination, models.ProfileWalk)
	}

	if err := g.Wait(); err != nil {
		return legPlan{}, err
	}
	return plan, nil
}

// interrupted reports a stage failure caused by the request deadline or
// cancellation as UpstreamUnreachable, whatever kind the stage gave it.
func interrupted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.NewError(models.KindUpstreamUnreachable, "upstream services did not answer in time", errors.Join(ctxErr, err))
	}
	return err
}

// goSafe runs fn on the group, turning a panic into an Unexpected error so it
// cannot take down the process from a worker goroutine.
func goSafe(g *errgroup.Group, fn func() error) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in itinerary worker", "error", r, "stack", string(debug.Stack()))
				err = models.NewError(models.KindUnexpected, "unexpected failure computing itinerary", fmt.Errorf("%v", r))
			}
		}()
		return fn()
	})
}
