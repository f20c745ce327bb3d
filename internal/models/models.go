// Package models defines shared data types
package models

import "fmt"

// Point is a WGS84 coordinate in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// Station is a bike-share station snapshot. Never mutated after creation.
type Station struct {
	Name           string  `json:"name"`
	AvailableBikes int     `json:"available_bikes"`
	Capacity       int     `json:"capacity"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
}

// Point returns the station position
func (s Station) Point() Point {
	return Point{Lat: s.Lat, Lon: s.Lon}
}

// FreeDocks returns the number of empty stands
func (s Station) FreeDocks() int {
	return s.Capacity - s.AvailableBikes
}

// Contract is a bike-share operator area and the cities it covers
type Contract struct {
	Name           string   `json:"name"`
	CommercialName string   `json:"commercial_name"`
	CountryCode    string   `json:"country_code"`
	Cities         []string `json:"cities"`
}

// Profile is a routing travel profile
type Profile string

const (
	ProfileWalk Profile = "walk"
	ProfileBike Profile = "bike"
)

// Mode is the travel mode chosen for an itinerary
type Mode string

const (
	ModeWalk Mode = "walk"
	ModeBike Mode = "bike"
)

// Step is one turn-by-turn instruction
type Step struct {
	Instruction     string  `json:"instruction"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RouteLeg is one continuous route segment with a single profile
type RouteLeg struct {
	Origin          Point   `json:"origin"`
	Destination     Point   `json:"destination"`
	Profile         Profile `json:"profile"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Geometry        []Point `json:"geometry"`
	Steps           []Step  `json:"steps"`
}

// Comparison holds both computed options when a bike itinerary was evaluated
type Comparison struct {
	WalkSeconds float64 `json:"walk_seconds"`
	WalkMeters  float64 `json:"walk_meters"`
	BikeSeconds float64 `json:"bike_seconds"`
	BikeMeters  float64 `json:"bike_meters"`
}

// ItineraryDecision is the recommendation for one request.
// OriginStation and DestinationStation are set if and only if Mode is ModeBike.
type ItineraryDecision struct {
	ID                 string      `json:"id"`
	Mode               Mode        `json:"mode"`
	OriginStation      *Station    `json:"origin_station"`
	DestinationStation *Station    `json:"destination_station"`
	Legs               []RouteLeg  `json:"legs"`
	Comparison         *Comparison `json:"comparison,omitempty"`
	Rationale          string      `json:"rationale"`
}

// TotalSeconds sums leg durations
func (d *ItineraryDecision) TotalSeconds() float64 {
	var total float64
	for _, leg := range d.Legs {
		total += leg.DurationSeconds
	}
	return total
}

// Suggestion is an address search result
type Suggestion struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}
