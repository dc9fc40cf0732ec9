// Package geo implements the geofence math used for attendance
// verification. Everything here is a pure function of coordinates.
package geo

import "math"

const earthRadiusM = 6371000.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineM returns the great-circle distance between two points in meters.
func HaversineM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// Fence is a circular geofence around a campus location.
type Fence struct {
	Center  Point
	RadiusM float64
}

// Contains reports whether p lies within the fence.
func (f Fence) Contains(p Point) bool {
	return HaversineM(f.Center, p) <= f.RadiusM
}

// DistanceM returns how far p is from the fence center, in meters.
func (f Fence) DistanceM(p Point) float64 {
	return HaversineM(f.Center, p)
}

// InPolygon reports whether p lies inside the polygon using ray casting.
// The polygon is a ring of vertices; it need not be explicitly closed.
func InPolygon(p Point, ring []Point) bool {
	if len(ring) < 3 {
		return false
	}
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		vi, vj := ring[i], ring[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) &&
			p.Lng < (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng {
			inside = !inside
		}
		j = i
	}
	return inside
}
