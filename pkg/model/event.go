package model

import "time"

type EventFormat string

const (
	FormatConventional EventFormat = "conventional"
	FormatSprint       EventFormat = "sprint"
)

// Event is one entry of a season schedule.
type Event struct {
	RoundNumber int         `json:"roundNumber"`
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Location    string      `json:"location"`
	Date        time.Time   `json:"date"`
	Format      EventFormat `json:"format"`
}
