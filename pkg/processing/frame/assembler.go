package frame

import (
	"fmt"
	"sort"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/processing"
	"github.com/f1insight/frameforge/pkg/processing/timeline"
)

type Assembler struct {
	l *log.Logger
}

type Option func(*Assembler)

func WithLogger(arg *log.Logger) Option {
	return func(a *Assembler) {
		a.l = arg
	}
}

func NewAssembler(opts ...Option) *Assembler {
	ret := &Assembler{l: log.Default().Named("frame")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Assemble merges the resampled driver channels, the aligned weather and the
// night flags into the frame sequence. Drivers absent at an axis point are
// left out of that frame entirely. weather and night may be nil.
//
//nolint:whitespace // false positive
func (a *Assembler) Assemble(
	axis timeline.MasterAxis,
	series map[string]*timeline.ResampledSeries,
	weather []model.WeatherSnapshot,
	night []bool,
	statuses []model.TrackStatus,
) (*model.FrameSequence, error) {
	if axis.N == 0 {
		return nil, fmt.Errorf("%w: empty master axis", processing.ErrAssemblyInconsistent)
	}

	// stable driver order, map iteration must not leak into the output
	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	totalLaps := 0
	for _, id := range ids {
		s := series[id]
		if n := len(s.Lap); n > 0 && s.Lap[n-1] > totalLaps {
			totalLaps = s.Lap[n-1]
		}
	}

	type ranked struct {
		code  string
		entry model.DriverEntry
	}

	frames := make([]model.Frame, axis.N)
	active := make([]ranked, 0, len(ids))
	for i := 0; i < axis.N; i++ {
		active = active[:0]
		for _, id := range ids {
			if entry, ok := series[id].EntryAt(i); ok {
				active = append(active, ranked{code: series[id].Driver.Code, entry: entry})
			}
		}
		// race distance rank; ties: lower lap, then higher speed
		sort.SliceStable(active, func(x, y int) bool {
			ex, ey := active[x].entry, active[y].entry
			if ex.Dist != ey.Dist {
				return ex.Dist > ey.Dist
			}
			if ex.Lap != ey.Lap {
				return ex.Lap < ey.Lap
			}
			if ex.Speed != ey.Speed {
				return ex.Speed > ey.Speed
			}
			return active[x].code < active[y].code
		})

		entries := make(map[string]model.DriverEntry, len(active))
		for pos := range active {
			entry := active[pos].entry
			entry.Position = pos + 1
			entries[active[pos].code] = entry
		}
		f := model.Frame{T: axis.At(i), Drivers: entries}
		if weather != nil {
			snap := weather[i]
			f.Weather = &snap
		}
		if night != nil {
			f.Night = night[i]
		}
		frames[i] = f
	}

	a.l.Info("frame sequence assembled",
		log.Int("frames", len(frames)),
		log.Int("drivers", len(ids)),
		log.Int("totalLaps", totalLaps))
	return &model.FrameSequence{
		Frames:        frames,
		TotalLaps:     totalLaps,
		TrackStatuses: statuses,
	}, nil
}
