package booking

import (
	"fmt"
	"sort"
)

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusCollected Status = "collected"
	StatusInStorage Status = "in_storage"
	StatusReturned  Status = "returned"
	StatusPaid      Status = "paid"
)

// validTransitions defines the state machine for booking status transitions.
// paid -> collected covers pay-before-collection flows.
var validTransitions = map[Status][]Status{
	StatusSubmitted: {StatusApproved},
	StatusApproved:  {StatusCollected, StatusPaid},
	StatusCollected: {StatusInStorage},
	StatusInStorage: {StatusReturned},
	StatusReturned:  {},
	StatusPaid:      {StatusCollected},
}

// StaffQueueStatuses is the fixed status subset that makes up the staff
// work queue, i.e. bookings still awaiting physical handling.
var StaffQueueStatuses = []Status{StatusSubmitted, StatusApproved, StatusCollected, StatusInStorage}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed. A self-transition is allowed as an idempotent no-op.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return s.IsValid()
	}
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// OneOf returns true if the status is among the given statuses.
func (s Status) OneOf(statuses ...Status) bool {
	for _, candidate := range statuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every recognized status in lexical order.
func AllStatuses() []string {
	names := make([]string, 0, len(validTransitions))
	for s := range validTransitions {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
