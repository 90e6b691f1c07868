package model

import (
	"fmt"
	"time"
)

type SessionType string

const (
	SessionRace             SessionType = "R"
	SessionQualifying       SessionType = "Q"
	SessionSprint           SessionType = "S"
	SessionSprintQualifying SessionType = "SQ"
)

var sessionNames = map[SessionType]string{
	SessionRace:             "Race",
	SessionQualifying:       "Qualifying",
	SessionSprint:           "Sprint",
	SessionSprintQualifying: "Sprint Qualifying",
}

func (t SessionType) Name() string {
	if name, ok := sessionNames[t]; ok {
		return name
	}
	return sessionNames[SessionRace]
}

func ParseSessionType(arg string) (SessionType, error) {
	st := SessionType(arg)
	if _, ok := sessionNames[st]; !ok {
		return "", fmt.Errorf("unknown session type %q", arg)
	}
	return st, nil
}

// SessionIdentity is the immutable cache key root for one session.
type SessionIdentity struct {
	Year  int         `json:"year"`
	Round int         `json:"round"`
	Type  SessionType `json:"type"`
}

func (s SessionIdentity) Key() string {
	return fmt.Sprintf("%d-%02d-%s", s.Year, s.Round, s.Type)
}

func (s SessionIdentity) String() string {
	return fmt.Sprintf("%d round %d %s", s.Year, s.Round, s.Type.Name())
}

// SessionMeta is resolved once per session and read-only afterwards.
type SessionMeta struct {
	Identity  SessionIdentity `json:"identity"`
	EventName string          `json:"eventName"`
	Country   string          `json:"country"`
	Location  string          `json:"location"`
	// scheduled start in UTC
	StartTime time.Time `json:"startTime"`
	// venue offset from UTC at the start time
	UTCOffset time.Duration `json:"utcOffset"`
	// scheduled duration; observed data wins when they disagree
	ScheduledDuration time.Duration `json:"scheduledDuration"`
}

type DriverRef struct {
	// timing service driver number
	ID string `json:"id"`
	// three letter abbreviation, e.g. VER
	Code string `json:"code"`
}
