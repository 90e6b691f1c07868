package model

// DriverEntry is one driver's state within a frame. Position is the ordinal
// rank by cumulative race distance at that instant.
type DriverEntry struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Dist     float64  `json:"dist"`
	RelDist  float64  `json:"relDist"`
	Speed    float64  `json:"speed"`
	Throttle float64  `json:"throttle"`
	Brake    float64  `json:"brake"`
	Gear     int      `json:"gear"`
	DRS      int      `json:"drs"`
	Tyre     Compound `json:"tyre"`
	Lap      int      `json:"lap"`
	Position int      `json:"position"`
}

// Frame is the snapshot of all active drivers plus weather at one axis
// point. A driver missing from Drivers was not on track at T.
type Frame struct {
	T       float64                `json:"t"`
	Drivers map[string]DriverEntry `json:"drivers"`
	Weather *WeatherSnapshot       `json:"weather,omitempty"`
	Night   bool                   `json:"night"`
}

// FrameSequence is the terminal artifact of the pipeline: one frame per
// master axis point, in strictly increasing timestamp order. Immutable
// after assembly.
type FrameSequence struct {
	Frames        []Frame       `json:"frames"`
	TotalLaps     int           `json:"totalLaps"`
	TrackStatuses []TrackStatus `json:"trackStatuses,omitempty"`
}
