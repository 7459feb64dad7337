package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusApproved, StatusCollected, StatusInStorage, StatusReturned, StatusPaid} {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, Status("shipped").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusTransitionTable(t *testing.T) {
	legal := map[Status][]Status{
		StatusSubmitted: {StatusApproved},
		StatusApproved:  {StatusCollected, StatusPaid},
		StatusCollected: {StatusInStorage},
		StatusInStorage: {StatusReturned},
		StatusReturned:  {},
		StatusPaid:      {StatusCollected},
	}

	all := []Status{StatusSubmitted, StatusApproved, StatusCollected, StatusInStorage, StatusReturned, StatusPaid}
	for from, targets := range legal {
		allowed := map[Status]bool{from: true} // self-transition is always a no-op success
		for _, to := range targets {
			allowed[to] = true
		}
		for _, to := range all {
			assert.Equal(t, allowed[to], from.CanTransitionTo(to), "edge %s -> %s", from, to)
		}
	}
}

func TestStatusReturnedIsTerminal(t *testing.T) {
	assert.True(t, StatusReturned.IsTerminal())
	for _, s := range []Status{StatusSubmitted, StatusApproved, StatusCollected, StatusInStorage, StatusPaid} {
		assert.False(t, s.IsTerminal(), "expected %s to be non-terminal", s)
	}
	assert.True(t, Status("unknown").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("in_storage")
	require.NoError(t, err)
	assert.Equal(t, StatusInStorage, status)

	_, err = ParseStatus("in storage")
	assert.Error(t, err)
}

func TestAllStatusesSorted(t *testing.T) {
	assert.Equal(t, []string{"approved", "collected", "in_storage", "paid", "returned", "submitted"}, AllStatuses())
}

func TestStaffQueueStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusSubmitted, StatusApproved, StatusCollected, StatusInStorage}, StaffQueueStatuses)
}
