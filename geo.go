package tripmapper

import "math"

// earthRadiusMeters is the spherical-Earth approximation radius.
const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance between two coordinates
// in meters. Identical inputs return exactly 0.
func HaversineDistance(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Clamp before Asin; floating rounding can push h a hair above 1 for
	// near-antipodal points.
	if h > 1 {
		h = 1
	}
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func validCoordinate(c Coordinate) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat != 0 && c.Lon != 0
}
