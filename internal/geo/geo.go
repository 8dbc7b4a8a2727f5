// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

// Package geo provides great-circle distance computation and the
// distance-to-weight decay model used by the recommendation scorer
// and the nearby-events listing.
//
// The weight model is a logistic decay centered on an "ideal" radius:
// an event at exactly IdealRadiusKm scores ~1.0, events at the user's
// doorstep approach 2.0, and far-away events approach 0. The weight is
// monotonically non-increasing in distance.
package geo

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	// IdealRadiusKm is the distance at which the decay weight crosses ~1.0.
	IdealRadiusKm = 10.0

	// decaySteepnessKm controls how fast the weight drops past the ideal radius.
	decaySteepnessKm = 5.0
)

// Coordinate is a geographic point in decimal degrees.
//
// The wire format is tolerant: both {"lat","lon"} and
// {"latitude","longitude"} are accepted on input and normalized here, at
// the data-model boundary. Output always uses the canonical lat/lon form.
type Coordinate struct {
	Lat float64 `json:"lat" koanf:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" koanf:"lon" validate:"gte=-180,lte=180"`
}

// UnmarshalJSON accepts either coordinate key spelling.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var aux struct {
		Lat       *float64 `json:"lat"`
		Lon       *float64 `json:"lon"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode coordinate: %w", err)
	}

	switch {
	case aux.Lat != nil && aux.Lon != nil:
		c.Lat, c.Lon = *aux.Lat, *aux.Lon
	case aux.Latitude != nil && aux.Longitude != nil:
		c.Lat, c.Lon = *aux.Latitude, *aux.Longitude
	default:
		return fmt.Errorf("coordinate requires lat/lon or latitude/longitude")
	}
	return nil
}

// Valid reports whether the coordinate is within geographic bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Distance returns the great-circle distance in kilometers between two
// coordinates using the haversine formula.
func Distance(a, b Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Weight converts a distance in kilometers to a proximity weight in [0, 2].
//
//	weight = 2 / (1 + exp((d - 10) / 5))
//
// Weight(10) ~= 1.0, Weight(0) -> 2.0, Weight(d) -> 0 as d grows.
func Weight(distanceKm float64) float64 {
	return 2 / (1 + math.Exp((distanceKm-IdealRadiusKm)/decaySteepnessKm))
}

// DistanceWeight returns both the haversine distance and its decay weight.
func DistanceWeight(a, b Coordinate) (distanceKm, weight float64) {
	distanceKm = Distance(a, b)
	return distanceKm, Weight(distanceKm)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
