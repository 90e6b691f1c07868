package weather

import (
	"math"
	"time"
)

// Elevation returns the approximate solar elevation in degrees at the given
// local wall-clock time. Declination follows the day of year, the hour angle
// the mean local solar day:
//
//	sin(elev) = sin(lat)*sin(decl) + cos(lat)*cos(decl)*cos(hourAngle)
//
// Venue latitude is not part of the session metadata, so callers pass the
// best available value (0 degenerates to the equatorial approximation, which
// still puts sunset close to 18:00 local).
func Elevation(local time.Time, latitudeDeg float64) float64 {
	decl := declinationDeg(local.YearDay())
	hours := float64(local.Hour()) +
		float64(local.Minute())/60.0 +
		float64(local.Second())/3600.0
	hourAngle := (hours - 12.0) * 15.0

	latRad := latitudeDeg * math.Pi / 180
	declRad := decl * math.Pi / 180
	haRad := hourAngle * math.Pi / 180

	sinElev := math.Sin(latRad)*math.Sin(declRad) +
		math.Cos(latRad)*math.Cos(declRad)*math.Cos(haRad)
	return math.Asin(sinElev) * 180 / math.Pi
}

func declinationDeg(yearDay int) float64 {
	return -23.44 * math.Cos(2*math.Pi/365.0*float64(yearDay+10))
}
