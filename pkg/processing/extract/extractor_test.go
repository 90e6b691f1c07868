//nolint:funlen,dupl // ok for tests
package extract

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/source"
)

type fakeClient struct {
	source.Client
	laps map[string][]model.Lap
	tel  map[string]map[int][]model.TelemetrySample
}

//nolint:whitespace // false positive
func (f *fakeClient) FetchLaps(
	_ context.Context, _ model.SessionIdentity, driver model.DriverRef,
) ([]model.Lap, error) {
	return f.laps[driver.ID], nil
}

//nolint:whitespace // false positive
func (f *fakeClient) FetchLapTelemetry(
	_ context.Context, _ model.SessionIdentity, driver model.DriverRef, lap int,
) ([]model.TelemetrySample, error) {
	return f.tel[driver.ID][lap], nil
}

var testSession = model.SessionIdentity{Year: 2024, Round: 1, Type: model.SessionRace}

func TestClean(t *testing.T) {
	samples := []model.RawSample{
		{T: 3.0, X: 30, Y: 30, Speed: 300},
		{T: 1.0, X: 10, Y: 10, Speed: 100},
		{T: 2.0, X: 20, Y: 20, Speed: 200},
		{T: 2.0, X: 99, Y: 99, Speed: 999},         // duplicate timestamp, dropped
		{T: 2.5, X: math.NaN(), Y: 25, Speed: 250}, // missing x, dropped
	}
	got := Clean(samples)
	assert.Len(t, got, 3)
	assert.Equal(t, []float64{1.0, 2.0, 3.0},
		[]float64{got[0].T, got[1].T, got[2].T})
	// first occurrence of the duplicate wins
	assert.Equal(t, 20.0, got[1].X)
	// strictly increasing
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].T, got[i-1].T)
	}
}

func TestExtract_CumulativeDistance(t *testing.T) {
	driver := model.DriverRef{ID: "1", Code: "VER"}
	client := &fakeClient{
		laps: map[string][]model.Lap{
			"1": {
				{Number: 1, Compound: model.CompoundSoft},
				{Number: 2, Compound: model.CompoundSoft},
			},
		},
		tel: map[string]map[int][]model.TelemetrySample{
			"1": {
				1: {
					{T: 0.0, X: 1, Y: 1, Speed: 100, Dist: 0},
					{T: 10.0, X: 2, Y: 2, Speed: 200, Dist: 5000},
				},
				2: {
					{T: 11.0, X: 3, Y: 3, Speed: 210, Dist: 1000},
				},
			},
		},
	}
	e := NewExtractor(client)
	series, err := e.Extract(context.Background(), testSession, driver)
	assert.NoError(t, err)
	assert.Len(t, series.Samples, 3)
	// second lap distance continues where the first ended
	assert.Equal(t, 6000.0, series.Samples[2].Dist)
	assert.Equal(t, 2, series.Samples[2].Lap)
	assert.Equal(t, model.CompoundSoft, series.Samples[2].Compound)
	assert.Equal(t, 2, series.MaxLap)
}

func TestExtract_NoLaps(t *testing.T) {
	client := &fakeClient{laps: map[string][]model.Lap{}}
	e := NewExtractor(client)
	_, err := e.Extract(context.Background(), testSession,
		model.DriverRef{ID: "1", Code: "VER"})
	assert.ErrorIs(t, err, source.ErrDriverDataMissing)
}

func TestExtract_NoValidSamples(t *testing.T) {
	client := &fakeClient{
		laps: map[string][]model.Lap{
			"1": {{Number: 1, Compound: model.CompoundSoft}},
		},
		tel: map[string]map[int][]model.TelemetrySample{
			"1": {1: {{T: 0.0, X: math.NaN(), Y: 1, Speed: 100}}},
		},
	}
	e := NewExtractor(client)
	_, err := e.Extract(context.Background(), testSession,
		model.DriverRef{ID: "1", Code: "VER"})
	assert.ErrorIs(t, err, source.ErrDriverDataMissing)
}

func TestBuildStints(t *testing.T) {
	laps := []model.Lap{
		{Number: 1, Compound: model.CompoundSoft},
		{Number: 2, Compound: model.CompoundSoft},
		{Number: 3, Compound: model.CompoundMedium},
		{Number: 4, Compound: model.CompoundMedium},
	}
	e := NewExtractor(nil)
	stints := e.buildStints(model.DriverRef{Code: "VER"}, laps)
	assert.Equal(t, []model.TyreStint{
		{Compound: model.CompoundSoft, StartLap: 1, EndLap: 2},
		{Compound: model.CompoundMedium, StartLap: 3, EndLap: 4},
	}, stints)
}

func TestBuildStints_GapRepair(t *testing.T) {
	// lap 3 has no compound record
	laps := []model.Lap{
		{Number: 1, Compound: model.CompoundSoft},
		{Number: 2, Compound: model.CompoundSoft},
		{Number: 4, Compound: model.CompoundHard},
		{Number: 5, Compound: model.CompoundHard},
	}
	e := NewExtractor(nil)
	stints := e.buildStints(model.DriverRef{Code: "VER"}, laps)
	assert.Equal(t, []model.TyreStint{
		{Compound: model.CompoundSoft, StartLap: 1, EndLap: 3},
		{Compound: model.CompoundHard, StartLap: 4, EndLap: 5},
	}, stints)
	// contiguous, no overlap over the full range
	for i := 1; i < len(stints); i++ {
		assert.Equal(t, stints[i-1].EndLap+1, stints[i].StartLap)
	}
}

func TestBuildStints_GapFlagKeepsGap(t *testing.T) {
	laps := []model.Lap{
		{Number: 1, Compound: model.CompoundSoft},
		{Number: 4, Compound: model.CompoundHard},
	}
	e := NewExtractor(nil, WithGapPolicy(GapFlag))
	stints := e.buildStints(model.DriverRef{Code: "VER"}, laps)
	assert.Equal(t, []model.TyreStint{
		{Compound: model.CompoundSoft, StartLap: 1, EndLap: 1},
		{Compound: model.CompoundHard, StartLap: 4, EndLap: 4},
	}, stints)
}

func TestNormalizeStints_Overlap(t *testing.T) {
	stints := []model.TyreStint{
		{Compound: model.CompoundSoft, StartLap: 1, EndLap: 5},
		{Compound: model.CompoundMedium, StartLap: 4, EndLap: 8},
	}
	e := NewExtractor(nil)
	got := e.normalizeStints(model.DriverRef{Code: "VER"}, stints)
	assert.Equal(t, []model.TyreStint{
		{Compound: model.CompoundSoft, StartLap: 1, EndLap: 3},
		{Compound: model.CompoundMedium, StartLap: 4, EndLap: 8},
	}, got)
}

func TestExtract_SourceError(t *testing.T) {
	client := &failingClient{err: source.ErrSourceUnavailable}
	e := NewExtractor(client)
	_, err := e.Extract(context.Background(), testSession,
		model.DriverRef{ID: "1", Code: "VER"})
	assert.True(t, errors.Is(err, source.ErrSourceUnavailable))
}

type failingClient struct {
	source.Client
	err error
}

//nolint:whitespace // false positive
func (f *failingClient) FetchLaps(
	_ context.Context, _ model.SessionIdentity, _ model.DriverRef,
) ([]model.Lap, error) {
	return nil, f.err
}
