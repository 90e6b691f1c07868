package extract

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/source"
)

// GapPolicy controls how a hole in a driver's tyre stint coverage is
// handled.
type GapPolicy string

const (
	// GapRepair extends the neighboring stint to close the hole.
	GapRepair GapPolicy = "repair"
	// GapFlag keeps the hole and logs it.
	GapFlag GapPolicy = "flag"
)

type Extractor struct {
	client    source.Client
	gapPolicy GapPolicy
	l         *log.Logger
}

type Option func(*Extractor)

func WithGapPolicy(arg GapPolicy) Option {
	return func(e *Extractor) {
		e.gapPolicy = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(e *Extractor) {
		e.l = arg
	}
}

func NewExtractor(client source.Client, opts ...Option) *Extractor {
	ret := &Extractor{
		client:    client,
		gapPolicy: GapRepair,
		l:         log.Default().Named("extract"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Extract fetches and cleans the raw series of one driver: telemetry of all
// laps concatenated with a cumulative race distance, sorted by session time,
// duplicate timestamps removed (first occurrence wins) and samples without
// position or speed dropped.
//
//nolint:whitespace // false positive
func (e *Extractor) Extract(
	ctx context.Context, id model.SessionIdentity, driver model.DriverRef,
) (*model.DriverRawSeries, error) {
	laps, err := e.client.FetchLaps(ctx, id, driver)
	if err != nil {
		return nil, fmt.Errorf("fetching laps for %s: %w", driver.Code, err)
	}
	if len(laps) == 0 {
		return nil, fmt.Errorf("%w: %s has no laps", source.ErrDriverDataMissing, driver.Code)
	}

	samples := make([]model.RawSample, 0)
	maxLap := 0
	totalDist := 0.0
	for i := range laps {
		lap := laps[i]
		tel, err := e.client.FetchLapTelemetry(ctx, id, driver, lap.Number)
		if err != nil {
			return nil, fmt.Errorf("fetching telemetry for %s lap %d: %w",
				driver.Code, lap.Number, err)
		}
		if len(tel) == 0 {
			continue
		}
		for j := range tel {
			samples = append(samples, model.RawSample{
				T:        tel[j].T,
				X:        tel[j].X,
				Y:        tel[j].Y,
				Dist:     totalDist + tel[j].Dist,
				RelDist:  tel[j].RelDist,
				Speed:    tel[j].Speed,
				Throttle: tel[j].Throttle,
				Brake:    tel[j].Brake,
				Gear:     tel[j].Gear,
				DRS:      tel[j].DRS,
				Lap:      lap.Number,
				Compound: lap.Compound,
			})
		}
		totalDist += tel[len(tel)-1].Dist
		if lap.Number > maxLap {
			maxLap = lap.Number
		}
	}

	samples = Clean(samples)
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s has no valid samples",
			source.ErrDriverDataMissing, driver.Code)
	}

	stints := e.buildStints(driver, laps)

	return &model.DriverRawSeries{
		Driver:  driver,
		Samples: samples,
		Stints:  stints,
		MaxLap:  maxLap,
	}, nil
}

// Clean sorts by timestamp, keeps the first sample of duplicate timestamps
// and drops samples with missing mandatory fields (x, y, speed).
func Clean(samples []model.RawSample) []model.RawSample {
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].T < samples[j].T })
	ret := make([]model.RawSample, 0, len(samples))
	lastT := math.Inf(-1)
	for i := range samples {
		s := samples[i]
		if math.IsNaN(s.T) || math.IsNaN(s.X) || math.IsNaN(s.Y) || math.IsNaN(s.Speed) {
			continue
		}
		if s.T == lastT {
			continue
		}
		ret = append(ret, s)
		lastT = s.T
	}
	return ret
}

// buildStints derives the stint list from the per-lap compound sequence and
// enforces the no-gap/no-overlap invariant per the configured policy.
func (e *Extractor) buildStints(driver model.DriverRef, laps []model.Lap) []model.TyreStint {
	stints := make([]model.TyreStint, 0)
	for i := range laps {
		lap := laps[i]
		if len(stints) > 0 && stints[len(stints)-1].Compound == lap.Compound &&
			lap.Number == stints[len(stints)-1].EndLap+1 {
			stints[len(stints)-1].EndLap = lap.Number
			continue
		}
		stints = append(stints, model.TyreStint{
			Compound: lap.Compound,
			StartLap: lap.Number,
			EndLap:   lap.Number,
		})
	}
	return e.normalizeStints(driver, stints)
}

//nolint:whitespace // false positive
func (e *Extractor) normalizeStints(
	driver model.DriverRef, stints []model.TyreStint,
) []model.TyreStint {
	for i := 1; i < len(stints); i++ {
		prev := &stints[i-1]
		cur := &stints[i]
		switch {
		case cur.StartLap == prev.EndLap+1:
			// contiguous
		case cur.StartLap > prev.EndLap+1:
			if e.gapPolicy == GapRepair {
				e.l.Debug("repairing stint gap",
					log.String("driver", driver.Code),
					log.Int("afterLap", prev.EndLap), log.Int("beforeLap", cur.StartLap))
				prev.EndLap = cur.StartLap - 1
			} else {
				e.l.Warn("tyre stint gap",
					log.String("driver", driver.Code),
					log.Int("afterLap", prev.EndLap), log.Int("beforeLap", cur.StartLap))
			}
		default:
			// overlapping stints: the later record wins
			prev.EndLap = cur.StartLap - 1
		}
	}
	// trimming an overlap may leave a stint empty
	return lo.Filter(stints, func(s model.TyreStint, _ int) bool {
		return s.EndLap >= s.StartLap
	})
}
