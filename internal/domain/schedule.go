package domain

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/pkg/types"
)

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid returns true if End is strictly after Start
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Overlaps reports whether [a,b) and [c,d) intersect: a < d and c < b
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Duration returns End - Start
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Slot is a bookable candidate interval
type Slot = Interval

// WorkWindow is the working-hours window of one employee at one location on one weekday
type WorkWindow struct {
	EmployeeID int64
	LocationID int64
	Weekday    time.Weekday
	Start      types.TimeString
	End        types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// HasBreak returns true if the window declares a complete break
func (w *WorkWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil && w.BreakStart.IsBefore(*w.BreakEnd)
}

// On resolves the window against a concrete date (interpreted in date's location)
func (w *WorkWindow) On(date time.Time) (work Interval, brk *Interval) {
	work = Interval{Start: w.Start.On(date), End: w.End.On(date)}
	if w.HasBreak() {
		brk = &Interval{Start: w.BreakStart.On(date), End: w.BreakEnd.On(date)}
	}
	return work, brk
}

// LocationHours is the opening-hours entry of a location for one weekday
type LocationHours struct {
	LocationID int64
	Weekday    time.Weekday
	IsClosed   bool
	Open       *types.TimeString
	Close      *types.TimeString
}

// Covers reports whether the location is open for the whole interval on date.
// An entry without open/close times is treated as open all day.
func (h *LocationHours) Covers(date time.Time, interval Interval) bool {
	if h.IsClosed {
		return false
	}
	if h.Open == nil || h.Close == nil {
		return true
	}
	open := Interval{Start: h.Open.On(date), End: h.Close.On(date)}
	return open.Contains(interval)
}

// WorkloadSnapshot is the booked load of an employee on one date
type WorkloadSnapshot struct {
	EmployeeID   int64
	Date         time.Time
	BookedHours  float64
	BookingCount int
}
