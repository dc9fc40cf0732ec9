package geo

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	p := Point{Lat: 28.6129, Lng: 77.2295}
	if d := HaversineM(p, p); d != 0 {
		t.Fatalf("expected 0 for identical points, got %f", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// India Gate to Connaught Place, roughly 2.4 km.
	a := Point{Lat: 28.6129, Lng: 77.2295}
	b := Point{Lat: 28.6315, Lng: 77.2167}
	d := HaversineM(a, b)
	if d < 2200 || d > 2700 {
		t.Fatalf("expected ~2.4km, got %f m", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Point{Lat: 12.9716, Lng: 77.5946}
	b := Point{Lat: 13.0827, Lng: 80.2707}
	if d1, d2 := HaversineM(a, b), HaversineM(b, a); math.Abs(d1-d2) > 1e-6 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestFenceContains(t *testing.T) {
	fence := Fence{Center: Point{Lat: 28.6129, Lng: 77.2295}, RadiusM: 150}

	if !fence.Contains(Point{Lat: 28.6129, Lng: 77.2295}) {
		t.Fatal("center must be inside the fence")
	}
	// ~100m north: 1 degree latitude is ~111km.
	if !fence.Contains(Point{Lat: 28.6129 + 100.0/111000.0, Lng: 77.2295}) {
		t.Fatal("point 100m away must be inside a 150m fence")
	}
	// ~500m north.
	if fence.Contains(Point{Lat: 28.6129 + 500.0/111000.0, Lng: 77.2295}) {
		t.Fatal("point 500m away must be outside a 150m fence")
	}
}

func TestInPolygon(t *testing.T) {
	square := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{Lat: 5, Lng: 5}, true},
		{"outside", Point{Lat: 15, Lng: 5}, false},
		{"near edge inside", Point{Lat: 0.001, Lng: 5}, true},
		{"far outside", Point{Lat: -5, Lng: -5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InPolygon(tt.p, square); got != tt.want {
				t.Fatalf("InPolygon(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestInPolygonDegenerateRing(t *testing.T) {
	if InPolygon(Point{Lat: 1, Lng: 1}, []Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 0}}) {
		t.Fatal("a ring with fewer than 3 vertices contains nothing")
	}
}
