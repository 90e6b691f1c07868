package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/source"
)

// Client decorates a source.Client with bounded exponential backoff on
// transient failures. Only ErrSourceUnavailable is retried; everything else
// surfaces immediately.
type Client struct {
	delegate    source.Client
	maxRetries  uint64
	maxInterval time.Duration
	l           *log.Logger
}

type Option func(*Client)

func WithMaxRetries(arg uint64) Option {
	return func(c *Client) {
		c.maxRetries = arg
	}
}

func WithMaxInterval(arg time.Duration) Option {
	return func(c *Client) {
		c.maxInterval = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(c *Client) {
		c.l = arg
	}
}

var _ source.Client = (*Client)(nil)

func New(delegate source.Client, opts ...Option) *Client {
	ret := &Client{
		delegate:    delegate,
		maxRetries:  3,
		maxInterval: 5 * time.Second,
		l:           log.Default().Named("source.retry"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func attempt[T any](ctx context.Context, c *Client, op string, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = c.maxInterval
	var ret T
	err := backoff.RetryNotify(
		func() error {
			var err error
			ret, err = fn()
			if err != nil && !errors.Is(err, source.ErrSourceUnavailable) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx),
		func(err error, d time.Duration) {
			c.l.Warn("retrying source call",
				log.String("op", op), log.Duration("wait", d), log.ErrorField(err))
		})
	return ret, err
}

//nolint:whitespace // false positive
func (c *Client) ResolveSession(
	ctx context.Context, year, round int, sessionType model.SessionType,
) (*model.SessionMeta, error) {
	return attempt(ctx, c, "resolveSession", func() (*model.SessionMeta, error) {
		return c.delegate.ResolveSession(ctx, year, round, sessionType)
	})
}

func (c *Client) ListEvents(ctx context.Context, year int) ([]model.Event, error) {
	return attempt(ctx, c, "listEvents", func() ([]model.Event, error) {
		return c.delegate.ListEvents(ctx, year)
	})
}

//nolint:whitespace // false positive
func (c *Client) ListDrivers(
	ctx context.Context, id model.SessionIdentity,
) ([]model.DriverRef, error) {
	return attempt(ctx, c, "listDrivers", func() ([]model.DriverRef, error) {
		return c.delegate.ListDrivers(ctx, id)
	})
}

//nolint:whitespace // false positive
func (c *Client) FetchLaps(
	ctx context.Context, id model.SessionIdentity, driver model.DriverRef,
) ([]model.Lap, error) {
	return attempt(ctx, c, "fetchLaps", func() ([]model.Lap, error) {
		return c.delegate.FetchLaps(ctx, id, driver)
	})
}

//nolint:whitespace // false positive
func (c *Client) FetchLapTelemetry(
	ctx context.Context, id model.SessionIdentity, driver model.DriverRef, lap int,
) ([]model.TelemetrySample, error) {
	return attempt(ctx, c, "fetchLapTelemetry", func() ([]model.TelemetrySample, error) {
		return c.delegate.FetchLapTelemetry(ctx, id, driver, lap)
	})
}

//nolint:whitespace // false positive
func (c *Client) FetchWeather(
	ctx context.Context, id model.SessionIdentity,
) (*model.WeatherSeries, error) {
	return attempt(ctx, c, "fetchWeather", func() (*model.WeatherSeries, error) {
		return c.delegate.FetchWeather(ctx, id)
	})
}

//nolint:whitespace // false positive
func (c *Client) FetchTrackStatus(
	ctx context.Context, id model.SessionIdentity,
) ([]model.TrackStatus, error) {
	return attempt(ctx, c, "fetchTrackStatus", func() ([]model.TrackStatus, error) {
		return c.delegate.FetchTrackStatus(ctx, id)
	})
}
