package timeline

import "math"

// FPS is the fixed rate of the master axis.
const FPS = 25

// Step is the axis spacing in seconds.
const Step = 1.0 / FPS

// MasterAxis is the fixed-rate time grid all channels are resampled onto.
// Timestamps are derived as Start + i*Step so the spacing is exact and the
// axis is immutable once built.
type MasterAxis struct {
	Start float64 `json:"start"`
	N     int     `json:"n"`
}

// NewMasterAxis spans [start, end] at the fixed step. An end before start
// yields an empty axis.
func NewMasterAxis(start, end float64) MasterAxis {
	if end < start {
		return MasterAxis{Start: start, N: 0}
	}
	return MasterAxis{
		Start: start,
		N:     int(math.Floor((end-start)*FPS)) + 1,
	}
}

func (a MasterAxis) At(i int) float64 {
	return a.Start + float64(i)*Step
}

// FirstAt returns the lowest axis index whose timestamp is >= t.
func (a MasterAxis) FirstAt(t float64) int {
	if t <= a.Start {
		return 0
	}
	return int(math.Ceil((t - a.Start) * FPS))
}

// LastAt returns the highest axis index whose timestamp is <= t, or -1.
func (a MasterAxis) LastAt(t float64) int {
	if t < a.Start {
		return -1
	}
	idx := int(math.Floor((t - a.Start) * FPS))
	if idx >= a.N {
		idx = a.N - 1
	}
	return idx
}
