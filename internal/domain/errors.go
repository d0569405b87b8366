package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer of the service.
var (
	// ErrValidation caller input or business rule violation; safe to show, never retried
	ErrValidation = errors.New("validation error")

	// ErrConflict the slot was taken concurrently; retry after re-checking availability
	ErrConflict = errors.New("conflict")

	// ErrNotFound referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrTransientStore storage hiccup; retry with backoff
	ErrTransientStore = errors.New("transient store error")

	// ErrFatalConfig configuration cannot be evaluated
	ErrFatalConfig = errors.New("fatal config error")

	// ErrStore non-retryable storage failure
	ErrStore = errors.New("storage failure")
)

var (
	ErrBookingNotFound         = fmt.Errorf("%w: booking", ErrNotFound)
	ErrEmployeeNotFound        = fmt.Errorf("%w: employee", ErrNotFound)
	ErrWorkWindowNotFound      = fmt.Errorf("%w: work window", ErrNotFound)
	ErrLocationHoursNotFound   = fmt.Errorf("%w: location hours", ErrNotFound)
	ErrLocationServiceNotFound = fmt.Errorf("%w: location service", ErrNotFound)
	ErrRulesNotFound           = fmt.Errorf("%w: booking rules", ErrNotFound)
	ErrCancellationNotFound    = fmt.Errorf("%w: cancellation record", ErrNotFound)
)

// Business rule names surfaced to API clients
const (
	RuleInterval           = "interval"
	RuleLeadTime           = "lead_time"
	RuleMaxAdvance         = "max_advance"
	RuleSlotUnavailable    = "slot_unavailable"
	RuleWorkloadCap        = "workload_cap"
	RuleCancellationWindow = "cancellation_window"
	RuleTerminalState      = "terminal_state"
	RuleTransition         = "transition"
	RuleActor              = "actor"
)

// RuleError names the business rule behind a validation or conflict error
type RuleError struct {
	Kind error
	Rule string
}

// NewRuleError creates a sentinel for a named rule of the given kind
func NewRuleError(kind error, rule string) *RuleError {
	return &RuleError{Kind: kind, Rule: rule}
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Rule)
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

// RuleOf returns the violated rule name, or "" if err does not carry one
func RuleOf(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Rule
	}
	return ""
}
