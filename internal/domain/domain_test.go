package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }
	booked := Interval{Start: at(0), End: at(30)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"touches at end", Interval{Start: at(30), End: at(60)}, false},
		{"touches at start", Interval{Start: at(-30), End: at(0)}, false},
		{"inside", Interval{Start: at(10), End: at(20)}, true},
		{"covers", Interval{Start: at(-10), End: at(40)}, true},
		{"tail", Interval{Start: at(29), End: at(59)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booked.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(booked))
		})
	}

	assert.True(t, booked.Contains(booked))
	assert.False(t, Interval{Start: at(0), End: at(0)}.Valid())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPendingConfirmation, StatusActive))
	assert.True(t, CanTransition(StatusActive, StatusCancelledByProvider))
	assert.False(t, CanTransition(StatusActive, StatusPendingConfirmation))
	assert.False(t, CanTransition(StatusActive, StatusActive))

	for _, terminal := range TerminalStatuses {
		assert.True(t, terminal.IsTerminal())
		assert.False(t, terminal.BlocksSlot())
		for _, to := range append(TerminalStatuses, BlockingStatuses...) {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}

func TestCompletionOutcome_Status(t *testing.T) {
	tests := map[CompletionOutcome]BookingStatus{
		OutcomeCompleted:        StatusCompleted,
		OutcomeNoShow:           StatusNoShowByClient,
		OutcomeNoShowByClient:   StatusNoShowByClient,
		OutcomeNoShowByProvider: StatusNoShowByProvider,
	}
	for outcome, want := range tests {
		got, err := outcome.Status()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := CompletionOutcome("cancelled").Status()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRuleOf(t *testing.T) {
	lead := NewRuleError(ErrValidation, RuleLeadTime)
	wrapped := fmt.Errorf("create: %w", fmt.Errorf("%w: 30m before start", lead))

	assert.Equal(t, RuleLeadTime, RuleOf(wrapped))
	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Empty(t, RuleOf(ErrBookingNotFound))
}

func TestAbusePeriod_Window(t *testing.T) {
	w, err := PeriodWeek.Window()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, w)

	_, err = AbusePeriod("fortnight").Window()
	assert.ErrorIs(t, err, ErrFatalConfig)
}

func TestEmployee_Defaults(t *testing.T) {
	e := &Employee{}
	assert.Equal(t, DefaultMaxDailyHours, e.DailyCapHours())
	assert.True(t, e.Qualifies(42))

	e.ServiceIDs = []int64{1, 2}
	assert.True(t, e.Qualifies(2))
	assert.False(t, e.Qualifies(3))
}
