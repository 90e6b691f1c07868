//nolint:funlen // ok for tests
package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/f1insight/frameforge/pkg/cache"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/processing"
	"github.com/f1insight/frameforge/pkg/processing/dispatch"
	"github.com/f1insight/frameforge/pkg/processing/extract"
)

// countingClient serves a deterministic two-driver session and counts every
// remote call, so tests can prove that cache hits skip the source entirely.
type countingClient struct {
	calls  atomic.Int64
	broken bool
}

func (c *countingClient) ResolveSession(
	_ context.Context, year, round int, sessionType model.SessionType,
) (*model.SessionMeta, error) {
	c.calls.Add(1)
	return &model.SessionMeta{
		Identity:  model.SessionIdentity{Year: year, Round: round, Type: sessionType},
		EventName: "Test Grand Prix",
		StartTime: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
		UTCOffset: 3 * time.Hour,
	}, nil
}

func (c *countingClient) ListEvents(_ context.Context, _ int) ([]model.Event, error) {
	c.calls.Add(1)
	return nil, nil
}

//nolint:whitespace // false positive
func (c *countingClient) ListDrivers(
	_ context.Context, _ model.SessionIdentity,
) ([]model.DriverRef, error) {
	c.calls.Add(1)
	return []model.DriverRef{{ID: "1", Code: "VER"}, {ID: "44", Code: "HAM"}}, nil
}

//nolint:whitespace // false positive
func (c *countingClient) FetchLaps(
	_ context.Context, _ model.SessionIdentity, _ model.DriverRef,
) ([]model.Lap, error) {
	c.calls.Add(1)
	if c.broken {
		return nil, nil
	}
	return []model.Lap{{Number: 1, Compound: model.CompoundSoft}}, nil
}

//nolint:whitespace // false positive
func (c *countingClient) FetchLapTelemetry(
	_ context.Context, _ model.SessionIdentity, driver model.DriverRef, _ int,
) ([]model.TelemetrySample, error) {
	c.calls.Add(1)
	offset := 0.0
	if driver.ID == "44" {
		offset = 0.5
	}
	return []model.TelemetrySample{
		{T: 10.0 + offset, X: 0, Dist: 0, Speed: 100, Gear: 3},
		{T: 12.0 + offset, X: 100, Dist: 500, Speed: 200, Gear: 5},
	}, nil
}

//nolint:whitespace // false positive
func (c *countingClient) FetchWeather(
	_ context.Context, _ model.SessionIdentity,
) (*model.WeatherSeries, error) {
	c.calls.Add(1)
	return &model.WeatherSeries{Samples: []model.WeatherSample{
		{T: 10.0, AirTemp: 20, Humidity: 40},
	}}, nil
}

//nolint:whitespace // false positive
func (c *countingClient) FetchTrackStatus(
	_ context.Context, _ model.SessionIdentity,
) ([]model.TrackStatus, error) {
	c.calls.Add(1)
	return []model.TrackStatus{{Status: "1", StartTime: 10.0, Message: "green"}}, nil
}

func testService(t *testing.T, client *countingClient) *FrameService {
	t.Helper()
	store, err := cache.NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	dispatcher := dispatch.NewDispatcher(extract.NewExtractor(client))
	return NewFrameService(client, store, dispatcher)
}

func testMeta() *model.SessionMeta {
	return &model.SessionMeta{
		Identity:  model.SessionIdentity{Year: 2024, Round: 3, Type: model.SessionRace},
		StartTime: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
		UTCOffset: 3 * time.Hour,
	}
}

func TestGetFrameSequence_ComputesAndCaches(t *testing.T) {
	client := &countingClient{}
	svc := testService(t, client)
	ctx := context.Background()

	seq, err := svc.GetFrameSequence(ctx, testMeta(), false)
	assert.NoError(t, err)
	assert.NotEmpty(t, seq.Frames)
	assert.Equal(t, 1, seq.TotalLaps)
	assert.Len(t, seq.TrackStatuses, 1)
	// the second driver starts half a second later and ends half a second
	// after the first, so only the middle of the axis has both
	assert.Len(t, seq.Frames[0].Drivers, 1)
	assert.Len(t, seq.Frames[25].Drivers, 2)
	assert.Len(t, seq.Frames[len(seq.Frames)-1].Drivers, 1)
	assert.NotNil(t, seq.Frames[0].Weather)
}

func TestGetFrameSequence_SecondCallServedFromCache(t *testing.T) {
	client := &countingClient{}
	svc := testService(t, client)
	ctx := context.Background()

	first, err := svc.GetFrameSequence(ctx, testMeta(), false)
	assert.NoError(t, err)
	calls := client.calls.Load()

	second, err := svc.GetFrameSequence(ctx, testMeta(), false)
	assert.NoError(t, err)
	assert.Equal(t, calls, client.calls.Load(), "cache hit must not touch the source")
	assert.Empty(t, cmp.Diff(first, second))
}

func TestGetFrameSequence_ForceRefreshRecomputes(t *testing.T) {
	client := &countingClient{}
	svc := testService(t, client)
	ctx := context.Background()

	_, err := svc.GetFrameSequence(ctx, testMeta(), false)
	assert.NoError(t, err)
	calls := client.calls.Load()

	_, err = svc.GetFrameSequence(ctx, testMeta(), true)
	assert.NoError(t, err)
	assert.Greater(t, client.calls.Load(), calls)
}

func TestGetFrameSequence_AllDriversFailNothingCached(t *testing.T) {
	client := &countingClient{broken: true}
	svc := testService(t, client)
	ctx := context.Background()

	_, err := svc.GetFrameSequence(ctx, testMeta(), false)
	assert.ErrorIs(t, err, processing.ErrSessionUnprocessable)

	// the failure must not leave a cache entry behind
	lookup, err := svc.store.Get(ctx, testMeta().Identity, ProcessingVersion)
	assert.NoError(t, err)
	assert.Equal(t, cache.Miss, lookup.State)
}

func TestInvalidate_NextCallRecomputes(t *testing.T) {
	client := &countingClient{}
	svc := testService(t, client)
	ctx := context.Background()

	_, err := svc.GetFrameSequence(ctx, testMeta(), false)
	assert.NoError(t, err)
	assert.NoError(t, svc.Invalidate(ctx, testMeta().Identity))
	calls := client.calls.Load()

	_, err = svc.GetFrameSequence(ctx, testMeta(), false)
	assert.NoError(t, err)
	assert.Greater(t, client.calls.Load(), calls)
}
