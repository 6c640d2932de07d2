// Package zone classifies a delivery distance into the storefront's
// service bands. Both delivery paths (device geolocation and geocoded
// address) must go through Classify so boundary values agree everywhere.
package zone

import "math"

// Zone is a delivery band. The zero value None means not serviceable.
type Zone string

const (
	None   Zone = ""
	Green  Zone = "green"
	Yellow Zone = "yellow"
	Red    Zone = "red"
)

// Band upper bounds in km, inclusive.
const (
	greenMaxKm  = 4
	yellowMaxKm = 8
	redMaxKm    = 15
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Classify maps a distance in km to a zone. Distances beyond the last band
// are None. Negative or non-finite inputs are treated as not serviceable
// rather than a fault.
func Classify(distanceKm float64) Zone {
	switch {
	case math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0:
		return None
	case distanceKm <= greenMaxKm:
		return Green
	case distanceKm <= yellowMaxKm:
		return Yellow
	case distanceKm <= redMaxKm:
		return Red
	default:
		return None
	}
}

// Haversine returns the great-circle distance in km between two
// latitude/longitude pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
