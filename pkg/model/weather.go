package model

// WeatherSample is one measurement of the session-wide weather stream.
// The stream is much coarser than telemetry (roughly one sample per minute).
type WeatherSample struct {
	T             float64 `json:"t"`
	Rainfall      bool    `json:"rainfall"`
	Humidity      float64 `json:"humidity"`
	AirTemp       float64 `json:"airTemp"`
	TrackTemp     float64 `json:"trackTemp"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
}

type WeatherSeries struct {
	Samples []WeatherSample `json:"samples"`
}

// WeatherSnapshot is the weather state at one axis point. Continuous fields
// are interpolated, Rainfall and WindDirection are held from the most recent
// sample.
type WeatherSnapshot struct {
	Rainfall      bool    `json:"rainfall"`
	Humidity      float64 `json:"humidity"`
	AirTemp       float64 `json:"airTemp"`
	TrackTemp     float64 `json:"trackTemp"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
}

// TrackStatus is a flag/status change event reported by race control.
type TrackStatus struct {
	Status    string  `json:"status"`
	StartTime float64 `json:"startTime"`
	Message   string  `json:"message"`
}
