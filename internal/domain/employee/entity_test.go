package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkSchedule_Normalized_EmptyFallsBackToWeekdays(t *testing.T) {
	var s WorkSchedule

	normalized := s.Normalized()

	assert.True(t, normalized.WorksOn(time.Monday))
	assert.True(t, normalized.WorksOn(time.Friday))
	assert.False(t, normalized.WorksOn(time.Saturday))
	assert.False(t, normalized.WorksOn(time.Sunday))
}

func TestWorkSchedule_Normalized_KeepsExplicitConfig(t *testing.T) {
	s := WorkSchedule{"saturday": true, "sunday": true}

	normalized := s.Normalized()

	assert.True(t, normalized.WorksOn(time.Saturday))
	assert.True(t, normalized.WorksOn(time.Sunday))
	// Days missing from an explicit schedule are non-working
	assert.False(t, normalized.WorksOn(time.Monday))
}

func TestWorkSchedule_ScanRoundTrip(t *testing.T) {
	s := WorkSchedule{"monday": true, "saturday": false}

	value, err := s.Value()
	assert.NoError(t, err)

	var decoded WorkSchedule
	err = decoded.Scan(value)
	assert.NoError(t, err)
	assert.True(t, decoded.WorksOn(time.Monday))
	assert.False(t, decoded.WorksOn(time.Saturday))
}
