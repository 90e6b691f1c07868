package model

import "strings"

type Compound int

const (
	CompoundUnknown      Compound = -1
	CompoundSoft         Compound = 0
	CompoundMedium       Compound = 1
	CompoundHard         Compound = 2
	CompoundIntermediate Compound = 3
	CompoundWet          Compound = 4
)

var compoundNames = map[Compound]string{
	CompoundSoft:         "SOFT",
	CompoundMedium:       "MEDIUM",
	CompoundHard:         "HARD",
	CompoundIntermediate: "INTERMEDIATE",
	CompoundWet:          "WET",
}

func (c Compound) String() string {
	if name, ok := compoundNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

func ParseCompound(arg string) Compound {
	arg = strings.ToUpper(strings.TrimSpace(arg))
	for c, name := range compoundNames {
		if name == arg {
			return c
		}
	}
	return CompoundUnknown
}

// Lap describes one lap of a driver as reported by the timing service.
type Lap struct {
	Number   int      `json:"number"`
	Compound Compound `json:"compound"`
}

// TelemetrySample is one measurement as delivered by the timing service for
// a single lap. Dist is the distance covered within that lap.
type TelemetrySample struct {
	T        float64 `json:"t"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Dist     float64 `json:"dist"`
	RelDist  float64 `json:"relDist"`
	Speed    float64 `json:"speed"`
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`
	Gear     int     `json:"gear"`
	DRS      int     `json:"drs"`
}

// RawSample is one telemetry measurement. T is seconds on the session clock.
// Dist is the cumulative race distance across all laps, RelDist the
// fractional progress within the current lap.
type RawSample struct {
	T        float64  `json:"t"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Dist     float64  `json:"dist"`
	RelDist  float64  `json:"relDist"`
	Speed    float64  `json:"speed"`
	Throttle float64  `json:"throttle"`
	Brake    float64  `json:"brake"`
	Gear     int      `json:"gear"`
	DRS      int      `json:"drs"`
	Lap      int      `json:"lap"`
	Compound Compound `json:"compound"`
}

// TyreStint is a contiguous lap range on one compound. Stints of a driver
// cover the full active lap range without gaps or overlaps.
type TyreStint struct {
	Compound Compound `json:"compound"`
	StartLap int      `json:"startLap"`
	EndLap   int      `json:"endLap"`
}

// DriverRawSeries holds the cleaned per-driver samples. Sample timestamps
// are strictly increasing after cleaning.
type DriverRawSeries struct {
	Driver  DriverRef   `json:"driver"`
	Samples []RawSample `json:"samples"`
	Stints  []TyreStint `json:"stints"`
	MaxLap  int         `json:"maxLap"`
}

func (s *DriverRawSeries) TMin() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return s.Samples[0].T
}

func (s *DriverRawSeries) TMax() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return s.Samples[len(s.Samples)-1].T
}
