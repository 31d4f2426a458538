package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable_Exhaustive(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPaymentPending: {StatusPlaced, StatusCancelled},
		StatusPlaced:         {StatusLocked, StatusAccepted, StatusCancelled},
		StatusConfirmed:      {StatusLocked, StatusAccepted, StatusCancelled},
		StatusLocked:         {StatusAccepted, StatusCancelled},
		StatusAccepted:       {StatusPacked, StatusCancelled},
		StatusPacked:         {StatusOutForDelivery, StatusCancelled},
		StatusOutForDelivery: {StatusDelivered},
	}

	for _, from := range AllStatuses {
		want := map[Status]bool{}
		for _, to := range allowed[from] {
			want[to] = true
		}
		for _, to := range AllStatuses {
			assert.Equal(t, want[to], CanTransition(from, to), "%s -> %s", from, to)
			if want[to] {
				assert.NoError(t, CheckTransition(from, to))
			} else {
				assert.ErrorIs(t, CheckTransition(from, to), ErrInvalidTransition)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range AllStatuses {
		terminal := s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
		assert.Equal(t, terminal, IsTerminal(s), string(s))
	}
}

func TestAllowedFromReturnsCopy(t *testing.T) {
	got := AllowedFrom(StatusPlaced)
	got[0] = StatusDelivered
	assert.True(t, CanTransition(StatusPlaced, StatusLocked))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("out_for_delivery")
	assert.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, s)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)
}
