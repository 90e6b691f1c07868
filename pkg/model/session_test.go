package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionIdentityKey(t *testing.T) {
	id := SessionIdentity{Year: 2024, Round: 1, Type: SessionRace}
	assert.Equal(t, "2024-01-R", id.Key())
	id = SessionIdentity{Year: 2023, Round: 17, Type: SessionSprintQualifying}
	assert.Equal(t, "2023-17-SQ", id.Key())
}

func TestParseSessionType(t *testing.T) {
	st, err := ParseSessionType("R")
	assert.NoError(t, err)
	assert.Equal(t, SessionRace, st)
	assert.Equal(t, "Race", st.Name())

	_, err = ParseSessionType("FP1")
	assert.Error(t, err)
}

func TestParseCompound(t *testing.T) {
	assert.Equal(t, CompoundSoft, ParseCompound("SOFT"))
	assert.Equal(t, CompoundMedium, ParseCompound(" medium "))
	assert.Equal(t, CompoundWet, ParseCompound("wet"))
	assert.Equal(t, CompoundUnknown, ParseCompound(""))
	assert.Equal(t, CompoundUnknown, ParseCompound("SUPERSOFT"))
	assert.Equal(t, "HARD", CompoundHard.String())
	assert.Equal(t, "UNKNOWN", CompoundUnknown.String())
}
