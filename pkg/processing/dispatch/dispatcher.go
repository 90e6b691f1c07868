package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/processing"
	"github.com/f1insight/frameforge/pkg/processing/extract"
)

// Exclusion records a driver that was dropped from the session and why.
type Exclusion struct {
	Driver model.DriverRef
	Reason string
}

// Result contains the surviving per-driver series keyed by driver id plus
// the excluded drivers.
type Result struct {
	Series   map[string]*model.DriverRawSeries
	Excluded []Exclusion
}

// Dispatcher fans extraction out over all drivers of a session with a
// bounded worker budget. Per-driver failures are absorbed here and never
// propagate past it.
type Dispatcher struct {
	extractor *extract.Extractor
	workers   int
	timeout   time.Duration
	l         *log.Logger
}

type Option func(*Dispatcher)

// WithWorkers sets the worker budget. Zero means one worker per CPU core.
func WithWorkers(arg int) Option {
	return func(d *Dispatcher) {
		d.workers = arg
	}
}

func WithDriverTimeout(arg time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(d *Dispatcher) {
		d.l = arg
	}
}

func NewDispatcher(extractor *extract.Extractor, opts ...Option) *Dispatcher {
	ret := &Dispatcher{
		extractor: extractor,
		timeout:   2 * time.Minute,
		l:         log.Default().Named("dispatch"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.workers <= 0 {
		ret.workers = runtime.NumCPU()
	}
	return ret
}

// Run extracts every driver concurrently and waits for all workers before
// returning, so downstream stages always see the complete result set. A
// timed-out driver counts as missing data. Only when every driver fails the
// batch itself fails.
//
//nolint:whitespace // false positive
func (d *Dispatcher) Run(
	ctx context.Context, id model.SessionIdentity, drivers []model.DriverRef,
) (*Result, error) {
	ret := &Result{Series: make(map[string]*model.DriverRawSeries)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i := range drivers {
		driver := drivers[i]
		g.Go(func() error {
			wctx, cancel := context.WithTimeout(gctx, d.timeout)
			defer cancel()
			series, err := d.extractor.Extract(wctx, id, driver)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				d.l.Debug("driver extracted",
					log.String("driver", driver.Code),
					log.Int("samples", len(series.Samples)))
				ret.Series[driver.ID] = series
			case ctx.Err() != nil:
				// caller cancelled, abort the whole batch
				return ctx.Err()
			case errors.Is(err, context.DeadlineExceeded):
				d.l.Warn("driver extraction timed out", log.String("driver", driver.Code))
				ret.Excluded = append(ret.Excluded, Exclusion{
					Driver: driver,
					Reason: "extraction timed out",
				})
			default:
				d.l.Warn("driver excluded",
					log.String("driver", driver.Code), log.ErrorField(err))
				ret.Excluded = append(ret.Excluded, Exclusion{
					Driver: driver,
					Reason: err.Error(),
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(ret.Series) == 0 {
		return nil, fmt.Errorf("%w: all %d drivers failed",
			processing.ErrSessionUnprocessable, len(drivers))
	}
	d.l.Info("extraction complete",
		log.Int("drivers", len(ret.Series)), log.Int("excluded", len(ret.Excluded)))
	return ret, nil
}
