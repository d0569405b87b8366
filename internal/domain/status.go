package domain

import "fmt"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingConfirmation BookingStatus = "pending_confirmation"
	StatusActive              BookingStatus = "active"
	StatusCompleted           BookingStatus = "completed"
	StatusNoShowByClient      BookingStatus = "no_show_by_client"
	StatusNoShowByProvider    BookingStatus = "no_show_by_provider"
	StatusCancelledByClient   BookingStatus = "cancelled_by_client"
	StatusCancelledByProvider BookingStatus = "cancelled_by_provider"
)

// transitions is the only place where the booking state machine is defined.
// Statuses missing from the map are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingConfirmation: {
		StatusActive,
		StatusCompleted,
		StatusNoShowByClient,
		StatusNoShowByProvider,
		StatusCancelledByClient,
		StatusCancelledByProvider,
	},
	StatusActive: {
		StatusCompleted,
		StatusNoShowByClient,
		StatusNoShowByProvider,
		StatusCancelledByClient,
		StatusCancelledByProvider,
	},
}

// BlockingStatuses are the statuses that occupy an employee's time
var BlockingStatuses = []BookingStatus{
	StatusPendingConfirmation,
	StatusActive,
}

// CancelledStatuses are the statuses of a cancelled booking
var CancelledStatuses = []BookingStatus{
	StatusCancelledByClient,
	StatusCancelledByProvider,
}

// TerminalStatuses are the statuses with no outgoing transitions
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusNoShowByClient,
	StatusNoShowByProvider,
	StatusCancelledByClient,
	StatusCancelledByProvider,
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition leaves the status
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// BlocksSlot returns true if a booking in this status occupies its time slot
func (s BookingStatus) BlocksSlot() bool {
	return s == StatusActive || s == StatusPendingConfirmation
}

// IsValid returns true for the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPendingConfirmation, StatusActive, StatusCompleted,
		StatusNoShowByClient, StatusNoShowByProvider,
		StatusCancelledByClient, StatusCancelledByProvider:
		return true
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a raw string into a known status
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, raw)
	}
	return s, nil
}

// CompletionOutcome is the result recorded by a completion flow
type CompletionOutcome string

const (
	OutcomeCompleted        CompletionOutcome = "completed"
	OutcomeNoShow           CompletionOutcome = "no_show"
	OutcomeNoShowByClient   CompletionOutcome = "no_show_by_client"
	OutcomeNoShowByProvider CompletionOutcome = "no_show_by_provider"
)

// Status maps the outcome onto the terminal booking status; no_show means the client did not come
func (o CompletionOutcome) Status() (BookingStatus, error) {
	switch o {
	case OutcomeCompleted:
		return StatusCompleted, nil
	case OutcomeNoShow, OutcomeNoShowByClient:
		return StatusNoShowByClient, nil
	case OutcomeNoShowByProvider:
		return StatusNoShowByProvider, nil
	default:
		return "", fmt.Errorf("%w: unknown completion outcome %q", ErrValidation, string(o))
	}
}
