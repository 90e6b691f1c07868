//nolint:funlen // ok for tests
package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/processing/timeline"
)

func weatherFixture() *model.WeatherSeries {
	return &model.WeatherSeries{
		Samples: []model.WeatherSample{
			{T: 100, Rainfall: false, Humidity: 40, AirTemp: 20,
				TrackTemp: 30, Pressure: 1000, WindSpeed: 2, WindDirection: 90},
			{T: 200, Rainfall: true, Humidity: 60, AirTemp: 22,
				TrackTemp: 34, Pressure: 1004, WindSpeed: 4, WindDirection: 180},
		},
	}
}

func TestAlign_Interpolation(t *testing.T) {
	axis := timeline.NewMasterAxis(50, 250)
	got := NewAligner().Align(weatherFixture(), axis)

	assert.Len(t, got, axis.N)
	// axis point at t=150 sits halfway between the two samples
	mid := 2500
	assert.InDelta(t, 50.0, got[mid].Humidity, 1e-6)
	assert.InDelta(t, 21.0, got[mid].AirTemp, 1e-6)
	assert.InDelta(t, 32.0, got[mid].TrackTemp, 1e-6)
	assert.InDelta(t, 1002.0, got[mid].Pressure, 1e-6)
	assert.InDelta(t, 3.0, got[mid].WindSpeed, 1e-6)
}

func TestAlign_StepHoldFields(t *testing.T) {
	axis := timeline.NewMasterAxis(50, 250)
	got := NewAligner().Align(weatherFixture(), axis)

	// rainfall and wind direction hold the most recent sample, no blending
	mid := 2500
	assert.False(t, got[mid].Rainfall)
	assert.Equal(t, 90.0, got[mid].WindDirection)
	past := axis.FirstAt(200) + 1
	assert.True(t, got[past].Rainfall)
	assert.Equal(t, 180.0, got[past].WindDirection)
}

func TestAlign_ClampedAtEdges(t *testing.T) {
	axis := timeline.NewMasterAxis(50, 250)
	got := NewAligner().Align(weatherFixture(), axis)

	// before the first sample: nearest known value, never extrapolated
	assert.Equal(t, 40.0, got[0].Humidity)
	assert.Equal(t, 20.0, got[0].AirTemp)
	assert.False(t, got[0].Rainfall)
	// after the last sample
	last := got[axis.N-1]
	assert.Equal(t, 60.0, last.Humidity)
	assert.Equal(t, 22.0, last.AirTemp)
	assert.True(t, last.Rainfall)
}

func TestAlign_NoData(t *testing.T) {
	axis := timeline.NewMasterAxis(50, 250)
	a := NewAligner()

	assert.Nil(t, a.Align(nil, axis))
	assert.Nil(t, a.Align(&model.WeatherSeries{}, axis))
}

func TestNightFlags_SingleTransition(t *testing.T) {
	// local wall clock starts at 17:58 and the axis runs for five minutes,
	// so geometric sunset falls inside the session
	meta := &model.SessionMeta{
		Identity:  model.SessionIdentity{Year: 2024, Round: 12, Type: model.SessionRace},
		StartTime: time.Date(2024, 7, 6, 14, 58, 0, 0, time.UTC),
		UTCOffset: 3 * time.Hour,
	}
	axis := timeline.NewMasterAxis(100, 400)
	got := NewAligner().NightFlags(meta, axis)

	assert.Len(t, got, axis.N)
	assert.False(t, got[0])
	assert.True(t, got[axis.N-1])
	transitions := 0
	for i := 1; i < len(got); i++ {
		if got[i] != got[i-1] {
			transitions++
		}
	}
	assert.Equal(t, 1, transitions)
}

func TestNightFlags_DaySession(t *testing.T) {
	meta := &model.SessionMeta{
		StartTime: time.Date(2024, 7, 6, 12, 0, 0, 0, time.UTC),
		UTCOffset: 2 * time.Hour,
	}
	axis := timeline.NewMasterAxis(0, 60)
	for i, night := range NewAligner().NightFlags(meta, axis) {
		assert.False(t, night, "axis point %d", i)
	}
}

func TestElevation(t *testing.T) {
	noon := time.Date(2024, 7, 6, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC)

	assert.Greater(t, Elevation(noon, 0), 60.0)
	assert.Less(t, Elevation(midnight, 0), -60.0)
	// northern summer: higher sun at northern latitudes than at the equator
	assert.Greater(t, Elevation(noon, 45), 60.0)
}
