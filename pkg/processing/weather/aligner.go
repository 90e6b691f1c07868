package weather

import (
	"time"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/processing/timeline"
)

// Aligner maps the coarse session-wide weather stream onto the master axis
// and classifies each axis point as day or night.
type Aligner struct {
	// solar elevation in degrees below which a frame counts as night
	nightThreshold float64
	latitude       float64
	l              *log.Logger
}

type Option func(*Aligner)

// WithNightThreshold sets the solar elevation threshold in degrees.
// The default of 0 means geometric sunset.
func WithNightThreshold(arg float64) Option {
	return func(a *Aligner) {
		a.nightThreshold = arg
	}
}

// WithLatitude supplies the venue latitude in degrees when known.
func WithLatitude(arg float64) Option {
	return func(a *Aligner) {
		a.latitude = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(a *Aligner) {
		a.l = arg
	}
}

func NewAligner(opts ...Option) *Aligner {
	ret := &Aligner{l: log.Default().Named("weather")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Align interpolates the weather stream onto the axis: linear for the
// continuous fields, step-hold for rainfall and wind direction. Axis points
// before the first or after the last sample are clamped to the nearest known
// sample, never extrapolated. Returns nil when no weather data exists.
func (a *Aligner) Align(series *model.WeatherSeries, axis timeline.MasterAxis) []model.WeatherSnapshot {
	if series == nil || len(series.Samples) == 0 {
		a.l.Debug("no weather data for session")
		return nil
	}
	samples := series.Samples
	ret := make([]model.WeatherSnapshot, axis.N)
	j := 0
	for i := 0; i < axis.N; i++ {
		t := axis.At(i)
		for j+1 < len(samples) && samples[j+1].T <= t {
			j++
		}
		s0 := samples[j]
		snap := model.WeatherSnapshot{
			Rainfall:      s0.Rainfall,
			Humidity:      s0.Humidity,
			AirTemp:       s0.AirTemp,
			TrackTemp:     s0.TrackTemp,
			Pressure:      s0.Pressure,
			WindSpeed:     s0.WindSpeed,
			WindDirection: s0.WindDirection,
		}
		// interpolate continuous fields when inside the observed range
		if j+1 < len(samples) && s0.T < t {
			s1 := samples[j+1]
			frac := (t - s0.T) / (s1.T - s0.T)
			snap.Humidity = lerp(s0.Humidity, s1.Humidity, frac)
			snap.AirTemp = lerp(s0.AirTemp, s1.AirTemp, frac)
			snap.TrackTemp = lerp(s0.TrackTemp, s1.TrackTemp, frac)
			snap.Pressure = lerp(s0.Pressure, s1.Pressure, frac)
			snap.WindSpeed = lerp(s0.WindSpeed, s1.WindSpeed, frac)
		}
		ret[i] = snap
	}
	return ret
}

// NightFlags classifies every axis point. The wall clock of an axis point is
// the session start plus the elapsed time since the first axis timestamp,
// shifted by the venue's UTC offset.
func (a *Aligner) NightFlags(meta *model.SessionMeta, axis timeline.MasterAxis) []bool {
	ret := make([]bool, axis.N)
	base := meta.StartTime.Add(meta.UTCOffset)
	transitions := 0
	for i := 0; i < axis.N; i++ {
		elapsed := time.Duration((axis.At(i) - axis.Start) * float64(time.Second))
		local := base.Add(elapsed)
		ret[i] = Elevation(local, a.latitude) < a.nightThreshold
		if i > 0 && ret[i] != ret[i-1] {
			transitions++
		}
	}
	if transitions > 1 {
		// sessions normally straddle the threshold at most once
		a.l.Warn("multiple day/night transitions", log.Int("transitions", transitions))
	}
	return ret
}

func lerp(v0, v1, frac float64) float64 {
	return v0 + (v1-v0)*frac
}
