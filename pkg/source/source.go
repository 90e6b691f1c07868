package source

import (
	"context"
	"errors"

	"github.com/f1insight/frameforge/pkg/model"
)

var (
	// ErrSessionNotFound: no session exists for the requested
	// (year, round, type) triple. Terminal, user correctable.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSourceUnavailable: the timing service could not be reached.
	// Transient, retried with bounded backoff before surfacing.
	ErrSourceUnavailable = errors.New("timing service unavailable")
	// ErrDriverDataMissing: a driver has no usable data for the session.
	// Recovered by excluding the driver, never escalates past the dispatcher.
	ErrDriverDataMissing = errors.New("driver data missing")
)

// Client is the fetch contract of the remote timing service. All calls are
// potentially slow, network bound and intermittently failing.
type Client interface {
	ResolveSession(
		ctx context.Context, year, round int, sessionType model.SessionType,
	) (*model.SessionMeta, error)
	ListEvents(ctx context.Context, year int) ([]model.Event, error)
	ListDrivers(ctx context.Context, id model.SessionIdentity) ([]model.DriverRef, error)
	FetchLaps(
		ctx context.Context, id model.SessionIdentity, driver model.DriverRef,
	) ([]model.Lap, error)
	FetchLapTelemetry(
		ctx context.Context, id model.SessionIdentity, driver model.DriverRef, lap int,
	) ([]model.TelemetrySample, error)
	FetchWeather(ctx context.Context, id model.SessionIdentity) (*model.WeatherSeries, error)
	FetchTrackStatus(ctx context.Context, id model.SessionIdentity) ([]model.TrackStatus, error)
}
