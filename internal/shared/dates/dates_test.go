package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTomorrowUsesServiceTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 10th is 01:30 IST on the 11th.
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-12", Tomorrow(now, loc))
	assert.Equal(t, "2024-03-11", Today(now, loc))

	now = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", Tomorrow(now, loc))
}

func TestTomorrowCrossesMonthEnd(t *testing.T) {
	now := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", Tomorrow(now, time.UTC))
}

func TestParse(t *testing.T) {
	d, err := Parse("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d)

	_, err = Parse("01/06/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
