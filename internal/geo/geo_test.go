// FindFest - Local Event Discovery and Recommendations
// Copyright 2026 FindFest contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/findfest/findfest

package geo

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b      Coordinate
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Coordinate{Lat: -1.2921, Lon: 36.8219},
			b:         Coordinate{Lat: -1.2921, Lon: 36.8219},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of longitude at the equator",
			a:         Coordinate{Lat: 0, Lon: 0},
			b:         Coordinate{Lat: 0, Lon: 1},
			wantKm:    111.19,
			tolerance: 0.5,
		},
		{
			name:      "nairobi to mombasa",
			a:         Coordinate{Lat: -1.2921, Lon: 36.8219},
			b:         Coordinate{Lat: -4.0435, Lon: 39.6682},
			wantKm:    440,
			tolerance: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("Distance() = %f km, want %f +/- %f", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestWeight_Anchors(t *testing.T) {
	t.Parallel()

	// Weight at the ideal radius is ~1.0 by construction.
	if got := Weight(IdealRadiusKm); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Weight(%v) = %f, want 1.0", IdealRadiusKm, got)
	}

	// Weight at zero distance approaches 2.0.
	if got := Weight(0); math.Abs(got-2.0) > 0.25 {
		t.Errorf("Weight(0) = %f, want ~2.0", got)
	}

	// Weight vanishes at large distances.
	if got := Weight(500); got > 0.001 {
		t.Errorf("Weight(500) = %f, want ~0", got)
	}
}

func TestWeight_Monotonic(t *testing.T) {
	t.Parallel()

	prev := Weight(0)
	for d := 0.5; d <= 200; d += 0.5 {
		w := Weight(d)
		if w > prev {
			t.Fatalf("Weight not monotonically non-increasing: Weight(%f)=%f > Weight(%f)=%f", d, w, d-0.5, prev)
		}
		prev = w
	}
}

func TestDistanceWeight_TenKilometers(t *testing.T) {
	t.Parallel()

	// 0.0899 degrees of latitude is ~10 km.
	user := Coordinate{Lat: 0, Lon: 0}
	event := Coordinate{Lat: 0, Lon: 0.0899}

	km, weight := DistanceWeight(user, event)
	if math.Abs(km-10) > 0.1 {
		t.Errorf("distance = %f km, want ~10", km)
	}
	if math.Abs(weight-1.0) > 0.05 {
		t.Errorf("weight = %f, want 1.0 +/- 0.05", weight)
	}
}

func TestCoordinate_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "canonical lat/lon",
			input: `{"lat": -1.29, "lon": 36.82}`,
			want:  Coordinate{Lat: -1.29, Lon: 36.82},
		},
		{
			name:  "long-form latitude/longitude",
			input: `{"latitude": -1.29, "longitude": 36.82}`,
			want:  Coordinate{Lat: -1.29, Lon: 36.82},
		},
		{
			name:  "short form wins when both present",
			input: `{"lat": 1, "lon": 2, "latitude": 3, "longitude": 4}`,
			want:  Coordinate{Lat: 1, Lon: 2},
		},
		{
			name:    "missing longitude",
			input:   `{"lat": 1}`,
			wantErr: true,
		},
		{
			name:    "mixed spellings do not pair up",
			input:   `{"lat": 1, "longitude": 2}`,
			wantErr: true,
		},
		{
			name:    "empty object",
			input:   `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got Coordinate
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCoordinate_MarshalCanonical(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Coordinate{Lat: 1.5, Lon: -2.5})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"lat":1.5,"lon":-2.5}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestCoordinate_Valid(t *testing.T) {
	t.Parallel()

	valid := Coordinate{Lat: 45, Lon: 90}
	if !valid.Valid() {
		t.Errorf("Valid() = false for %+v", valid)
	}
	for _, c := range []Coordinate{{Lat: 91}, {Lat: -91}, {Lon: 181}, {Lon: -181}} {
		if c.Valid() {
			t.Errorf("Valid() = true for out-of-range %+v", c)
		}
	}
}
