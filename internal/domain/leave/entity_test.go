package leave

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveBalance_RemainingDays(t *testing.T) {
	balance := LeaveBalance{
		AllocatedDays: decimal.NewFromInt(10),
		UsedDays:      decimal.NewFromFloat(3.5),
	}
	assert.True(t, balance.RemainingDays().Equal(decimal.NewFromFloat(6.5)))

	// Over-consumption clamps the derived value at zero
	balance.UsedDays = decimal.NewFromInt(12)
	assert.True(t, balance.RemainingDays().IsZero())
}

func TestActionMetadata_ScanRoundTrip(t *testing.T) {
	metadata := ActionMetadata{
		Status:    LeaveRequestStatusApproved,
		DaysCount: decimal.NewFromFloat(2.5),
	}

	value, err := metadata.Value()
	require.NoError(t, err)

	var decoded ActionMetadata
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, LeaveRequestStatusApproved, decoded.Status)
	assert.True(t, decoded.DaysCount.Equal(decimal.NewFromFloat(2.5)))
}

func TestHalfDay_Valid(t *testing.T) {
	assert.True(t, HalfDayNone.Valid())
	assert.True(t, HalfDayAM.Valid())
	assert.True(t, HalfDayPM.Valid())
	assert.False(t, HalfDay("morning").Valid())
	assert.False(t, HalfDay("").Valid())
}
