package utils

import "math"

// DistanceUnknown is the sentinel returned when a distance cannot be
// computed (missing or out-of-range coordinates). It sorts after every real
// distance, so callers rank such candidates last and skip them in proximity
// filters.
const DistanceUnknown = math.MaxInt32

const earthRadiusKm = 6371.0

// CalculateDistance returns the great-circle distance in whole kilometers
// between two (longitude, latitude) pairs, computed with the haversine
// formula. Nil or out-of-range coordinates yield DistanceUnknown.
func CalculateDistance(lon1, lat1, lon2, lat2 *float64) int {
	if lon1 == nil || lat1 == nil || lon2 == nil || lat2 == nil {
		return DistanceUnknown
	}
	if !validCoordinate(*lon1, *lat1) || !validCoordinate(*lon2, *lat2) {
		return DistanceUnknown
	}

	phi1 := radians(*lat1)
	phi2 := radians(*lat2)
	dPhi := radians(*lat2 - *lat1)
	dLambda := radians(*lon2 - *lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(math.Round(earthRadiusKm * c))
}

func validCoordinate(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
