package timeline

import (
	"math"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
)

// ResampledSeries holds one driver's channels on the master axis, restricted
// to the axis window [First, Last] where the driver was actually observed.
// Outside that window the driver is absent, never extrapolated.
type ResampledSeries struct {
	Driver model.DriverRef
	// inclusive axis index range; Last < First means never present
	First, Last int

	X, Y, Dist, RelDist    []float64
	Speed, Throttle, Brake []float64
	Gear, DRS, Lap         []int
	Tyre                   []model.Compound
}

// Present reports whether the driver has a value at the given axis index.
func (r *ResampledSeries) Present(axisIdx int) bool {
	return axisIdx >= r.First && axisIdx <= r.Last
}

// EntryAt builds the driver's frame entry for an axis index. Position is
// filled in later by the assembler.
func (r *ResampledSeries) EntryAt(axisIdx int) (model.DriverEntry, bool) {
	if !r.Present(axisIdx) {
		return model.DriverEntry{}, false
	}
	i := axisIdx - r.First
	return model.DriverEntry{
		X:        r.X[i],
		Y:        r.Y[i],
		Dist:     r.Dist[i],
		RelDist:  r.RelDist[i],
		Speed:    r.Speed[i],
		Throttle: r.Throttle[i],
		Brake:    r.Brake[i],
		Gear:     r.Gear[i],
		DRS:      r.DRS[i],
		Tyre:     r.Tyre[i],
		Lap:      r.Lap[i],
	}, true
}

type Unifier struct {
	l *log.Logger
}

type Option func(*Unifier)

func WithLogger(arg *log.Logger) Option {
	return func(u *Unifier) {
		u.l = arg
	}
}

func NewUnifier(opts ...Option) *Unifier {
	ret := &Unifier{l: log.Default().Named("timeline")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Unify builds the master axis over the observed time range of all surviving
// drivers and resamples every driver onto it. Observed data wins over any
// scheduled duration.
//nolint:whitespace // false positive
func (u *Unifier) Unify(
	series map[string]*model.DriverRawSeries,
) (MasterAxis, map[string]*ResampledSeries) {
	start := math.Inf(1)
	end := math.Inf(-1)
	for _, s := range series {
		if len(s.Samples) == 0 {
			continue
		}
		start = math.Min(start, s.TMin())
		end = math.Max(end, s.TMax())
	}
	if math.IsInf(start, 1) {
		return MasterAxis{}, nil
	}
	axis := NewMasterAxis(start, end)
	u.l.Debug("master axis built",
		log.Float64("start", axis.Start), log.Int("frames", axis.N))

	ret := make(map[string]*ResampledSeries, len(series))
	for id, s := range series {
		ret[id] = Resample(s, axis)
	}
	return axis, ret
}

// Resample maps one cleaned raw series onto the axis: piecewise-linear
// interpolation for continuous channels, step-hold from the most recent raw
// sample for discrete ones. It is a pure function: identical inputs yield
// bit-identical outputs.
func Resample(s *model.DriverRawSeries, axis MasterAxis) *ResampledSeries {
	first := axis.FirstAt(s.TMin())
	last := axis.LastAt(s.TMax())
	ret := &ResampledSeries{Driver: s.Driver, First: first, Last: last}
	if last < first {
		return ret
	}
	n := last - first + 1
	ret.X = make([]float64, n)
	ret.Y = make([]float64, n)
	ret.Dist = make([]float64, n)
	ret.RelDist = make([]float64, n)
	ret.Speed = make([]float64, n)
	ret.Throttle = make([]float64, n)
	ret.Brake = make([]float64, n)
	ret.Gear = make([]int, n)
	ret.DRS = make([]int, n)
	ret.Lap = make([]int, n)
	ret.Tyre = make([]model.Compound, n)

	// cursor j: index of the last raw sample with T <= t
	j := 0
	for i := 0; i < n; i++ {
		t := axis.At(first + i)
		for j+1 < len(s.Samples) && s.Samples[j+1].T <= t {
			j++
		}
		s0 := s.Samples[j]
		if j+1 < len(s.Samples) && s0.T < t {
			s1 := s.Samples[j+1]
			frac := (t - s0.T) / (s1.T - s0.T)
			ret.X[i] = lerp(s0.X, s1.X, frac)
			ret.Y[i] = lerp(s0.Y, s1.Y, frac)
			ret.Dist[i] = lerp(s0.Dist, s1.Dist, frac)
			ret.RelDist[i] = lerp(s0.RelDist, s1.RelDist, frac)
			ret.Speed[i] = lerp(s0.Speed, s1.Speed, frac)
			ret.Throttle[i] = lerp(s0.Throttle, s1.Throttle, frac)
			ret.Brake[i] = lerp(s0.Brake, s1.Brake, frac)
		} else {
			ret.X[i] = s0.X
			ret.Y[i] = s0.Y
			ret.Dist[i] = s0.Dist
			ret.RelDist[i] = s0.RelDist
			ret.Speed[i] = s0.Speed
			ret.Throttle[i] = s0.Throttle
			ret.Brake[i] = s0.Brake
		}
		// discrete channels are held from s0, never interpolated
		ret.Gear[i] = s0.Gear
		ret.DRS[i] = s0.DRS
		ret.Lap[i] = s0.Lap
		ret.Tyre[i] = s0.Compound
	}
	return ret
}

func lerp(v0, v1, frac float64) float64 {
	return v0 + (v1-v0)*frac
}
