// Package openf1 implements the timing service contract against an
// OpenF1-style REST endpoint. All responses are JSON arrays of flat row
// objects.
package openf1

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
	"github.com/f1insight/frameforge/pkg/source"
)

const DefaultBaseURL = "https://api.openf1.org/v1"

type Client struct {
	baseURL string
	hc      *http.Client
	l       *log.Logger
}

type Option func(*Client)

func WithBaseURL(arg string) Option {
	return func(c *Client) {
		c.baseURL = arg
	}
}

func WithHTTPClient(arg *http.Client) Option {
	return func(c *Client) {
		c.hc = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(c *Client) {
		c.l = arg
	}
}

var _ source.Client = (*Client)(nil)

func New(opts ...Option) *Client {
	ret := &Client{
		baseURL: DefaultBaseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
		l:       log.Default().Named("source.openf1"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// row types as delivered by the API

type sessionRow struct {
	SessionName string  `json:"session_name"`
	EventName   string  `json:"event_name"`
	CountryName string  `json:"country_name"`
	Location    string  `json:"location"`
	DateStart   string  `json:"date_start"`
	GmtOffset   string  `json:"gmt_offset"`
	DurationMin float64 `json:"scheduled_duration_min"`
}

type eventRow struct {
	RoundNumber int    `json:"round_number"`
	EventName   string `json:"event_name"`
	CountryName string `json:"country_name"`
	Location    string `json:"location"`
	DateStart   string `json:"date_start"`
	EventFormat string `json:"event_format"`
}

type driverRow struct {
	DriverNumber int    `json:"driver_number"`
	NameAcronym  string `json:"name_acronym"`
}

type lapRow struct {
	LapNumber int    `json:"lap_number"`
	Compound  string `json:"compound"`
}

type telemetryRow struct {
	SessionTime float64 `json:"session_time"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Distance    float64 `json:"distance"`
	RelDistance float64 `json:"relative_distance"`
	Speed       float64 `json:"speed"`
	Throttle    float64 `json:"throttle"`
	Brake       float64 `json:"brake"`
	Gear        int     `json:"n_gear"`
	DRS         int     `json:"drs"`
}

type weatherRow struct {
	SessionTime   float64 `json:"session_time"`
	Rainfall      int     `json:"rainfall"`
	Humidity      float64 `json:"humidity"`
	AirTemp       float64 `json:"air_temperature"`
	TrackTemp     float64 `json:"track_temperature"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
}

type raceControlRow struct {
	SessionTime float64 `json:"session_time"`
	Flag        string  `json:"flag"`
	Message     string  `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", source.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, source.ErrSessionNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", source.ErrSourceUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", source.ErrSourceUnavailable, err)
	}
	return data, nil
}

func fetchRows[T any](c *Client, ctx context.Context, path string, query url.Values) ([]T, error) {
	data, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := oj.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return rows, nil
}

//nolint:whitespace // false positive
func (c *Client) ResolveSession(
	ctx context.Context, year, round int, sessionType model.SessionType,
) (*model.SessionMeta, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("round", strconv.Itoa(round))
	data, err := c.get(ctx, "sessions", query)
	if err != nil {
		return nil, err
	}
	// a round carries several sessions; pick ours by name
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding sessions response: %w", err)
	}
	path, err := jp.ParseString(
		fmt.Sprintf(`$[?(@.session_name == %q)]`, sessionType.Name()))
	if err != nil {
		return nil, err
	}
	res := path.Get(obj)
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: %d round %d has no %s",
			source.ErrSessionNotFound, year, round, sessionType.Name())
	}
	row := sessionRow{}
	if err := oj.Unmarshal([]byte(oj.JSON(res[0])), &row); err != nil {
		return nil, fmt.Errorf("decoding session row: %w", err)
	}
	start, err := time.Parse(time.RFC3339, row.DateStart)
	if err != nil {
		return nil, fmt.Errorf("invalid session start %q: %w", row.DateStart, err)
	}
	offset, err := parseGmtOffset(row.GmtOffset)
	if err != nil {
		return nil, fmt.Errorf("invalid gmt offset %q: %w", row.GmtOffset, err)
	}
	return &model.SessionMeta{
		Identity:          model.SessionIdentity{Year: year, Round: round, Type: sessionType},
		EventName:         row.EventName,
		Country:           row.CountryName,
		Location:          row.Location,
		StartTime:         start.UTC(),
		UTCOffset:         offset,
		ScheduledDuration: time.Duration(row.DurationMin * float64(time.Minute)),
	}, nil
}

func (c *Client) ListEvents(ctx context.Context, year int) ([]model.Event, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	rows, err := fetchRows[eventRow](c, ctx, "meetings", query)
	if err != nil {
		return nil, err
	}
	ret := make([]model.Event, 0, len(rows))
	for i := range rows {
		format := model.FormatConventional
		if rows[i].EventFormat == "sprint" || rows[i].EventFormat == "sprint_shootout" {
			format = model.FormatSprint
		}
		date, _ := time.Parse(time.RFC3339, rows[i].DateStart)
		ret = append(ret, model.Event{
			RoundNumber: rows[i].RoundNumber,
			Name:        rows[i].EventName,
			Country:     rows[i].CountryName,
			Location:    rows[i].Location,
			Date:        date,
			Format:      format,
		})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].RoundNumber < ret[j].RoundNumber })
	return ret, nil
}

//nolint:whitespace // false positive
func (c *Client) ListDrivers(
	ctx context.Context, id model.SessionIdentity,
) ([]model.DriverRef, error) {
	rows, err := fetchRows[driverRow](c, ctx, "drivers", sessionQuery(id))
	if err != nil {
		return nil, err
	}
	ret := make([]model.DriverRef, 0, len(rows))
	for i := range rows {
		ref := model.DriverRef{
			ID:   strconv.Itoa(rows[i].DriverNumber),
			Code: rows[i].NameAcronym,
		}
		if ref.Code == "" {
			ref.Code = ref.ID
		}
		ret = append(ret, ref)
	}
	return ret, nil
}

//nolint:whitespace // false positive
func (c *Client) FetchLaps(
	ctx context.Context, id model.SessionIdentity, driver model.DriverRef,
) ([]model.Lap, error) {
	query := sessionQuery(id)
	query.Set("driver_number", driver.ID)
	rows, err := fetchRows[lapRow](c, ctx, "laps", query)
	if err != nil {
		return nil, err
	}
	ret := make([]model.Lap, 0, len(rows))
	for i := range rows {
		ret = append(ret, model.Lap{
			Number:   rows[i].LapNumber,
			Compound: model.ParseCompound(rows[i].Compound),
		})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Number < ret[j].Number })
	return ret, nil
}

//nolint:whitespace // false positive
func (c *Client) FetchLapTelemetry(
	ctx context.Context, id model.SessionIdentity, driver model.DriverRef, lap int,
) ([]model.TelemetrySample, error) {
	query := sessionQuery(id)
	query.Set("driver_number", driver.ID)
	query.Set("lap_number", strconv.Itoa(lap))
	rows, err := fetchRows[telemetryRow](c, ctx, "car_data", query)
	if err != nil {
		return nil, err
	}
	ret := make([]model.TelemetrySample, 0, len(rows))
	for i := range rows {
		ret = append(ret, model.TelemetrySample{
			T:        rows[i].SessionTime,
			X:        rows[i].X,
			Y:        rows[i].Y,
			Dist:     rows[i].Distance,
			RelDist:  rows[i].RelDistance,
			Speed:    rows[i].Speed,
			Throttle: rows[i].Throttle,
			Brake:    rows[i].Brake,
			Gear:     rows[i].Gear,
			DRS:      rows[i].DRS,
		})
	}
	return ret, nil
}

//nolint:whitespace // false positive
func (c *Client) FetchWeather(
	ctx context.Context, id model.SessionIdentity,
) (*model.WeatherSeries, error) {
	rows, err := fetchRows[weatherRow](c, ctx, "weather", sessionQuery(id))
	if err != nil {
		return nil, err
	}
	ret := &model.WeatherSeries{Samples: make([]model.WeatherSample, 0, len(rows))}
	for i := range rows {
		ret.Samples = append(ret.Samples, model.WeatherSample{
			T:             rows[i].SessionTime,
			Rainfall:      rows[i].Rainfall != 0,
			Humidity:      rows[i].Humidity,
			AirTemp:       rows[i].AirTemp,
			TrackTemp:     rows[i].TrackTemp,
			Pressure:      rows[i].Pressure,
			WindSpeed:     rows[i].WindSpeed,
			WindDirection: rows[i].WindDirection,
		})
	}
	sort.Slice(ret.Samples, func(i, j int) bool { return ret.Samples[i].T < ret.Samples[j].T })
	return ret, nil
}

//nolint:whitespace // false positive
func (c *Client) FetchTrackStatus(
	ctx context.Context, id model.SessionIdentity,
) ([]model.TrackStatus, error) {
	rows, err := fetchRows[raceControlRow](c, ctx, "race_control", sessionQuery(id))
	if err != nil {
		return nil, err
	}
	ret := make([]model.TrackStatus, 0, len(rows))
	for i := range rows {
		ret = append(ret, model.TrackStatus{
			Status:    rows[i].Flag,
			StartTime: rows[i].SessionTime,
			Message:   rows[i].Message,
		})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].StartTime < ret[j].StartTime })
	return ret, nil
}

func sessionQuery(id model.SessionIdentity) url.Values {
	query := url.Values{}
	query.Set("year", strconv.Itoa(id.Year))
	query.Set("round", strconv.Itoa(id.Round))
	query.Set("session_type", string(id.Type))
	return query
}

// parseGmtOffset handles the "+03:00:00" / "-05:30:00" format used by the
// timing service.
func parseGmtOffset(arg string) (time.Duration, error) {
	if arg == "" {
		return 0, nil
	}
	sign := time.Duration(1)
	switch arg[0] {
	case '+':
		arg = arg[1:]
	case '-':
		sign = -1
		arg = arg[1:]
	}
	var h, m, s int
	if _, err := fmt.Sscanf(arg, "%d:%d:%d", &h, &m, &s); err != nil {
		return 0, err
	}
	return sign * (time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second), nil
}
