package geo

import "math"

// EarthRadiusMeters is the sphere radius used for all distances.
const EarthRadiusMeters = 6371000.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(p, q Coordinate) float64 {
	dLat := toRad(q.Lat - p.Lat)
	dLon := toRad(q.Lon - p.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(p.Lat))*math.Cos(toRad(q.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
