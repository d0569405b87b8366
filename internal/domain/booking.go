package domain

import (
	"time"
)

// Booking represents one scheduled appointment of a pet with an employee
type Booking struct {
	ID         int64
	Code       string // Human-readable unique code, e.g. "K7Q2ZD9M"
	CustomerID int64
	PetID      int64
	EmployeeID int64
	LocationID int64
	ServiceID  int64
	Status     BookingStatus

	StartTime time.Time // UTC
	EndTime   time.Time // UTC, always after StartTime

	Price float64
	Notes *string

	CompletedBy *int64 // nil when completed by the system
	CompletedAt *time.Time

	CancelledBy        *int64
	CancelledAt        *time.Time
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open [StartTime, EndTime) interval of the booking
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Duration returns the booked duration
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// BlocksSlot returns true if the booking occupies its employee's time
func (b *Booking) BlocksSlot() bool {
	return b.Status.BlocksSlot()
}

// IsTerminal returns true if no further transition is allowed
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsCancelled returns true if the booking has been cancelled by either side
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByClient || b.Status == StatusCancelledByProvider
}

// StatusChange carries the metadata stamped together with a status transition
type StatusChange struct {
	Status BookingStatus
	Actor  Actor
	At     time.Time
	Reason *string
}

// IsCancellation returns true if the change moves the booking into a cancelled state
func (c StatusChange) IsCancellation() bool {
	return c.Status == StatusCancelledByClient || c.Status == StatusCancelledByProvider
}

// IsCompletion returns true if the change records a completion or no-show
func (c StatusChange) IsCompletion() bool {
	return c.Status == StatusCompleted || c.Status == StatusNoShowByClient || c.Status == StatusNoShowByProvider
}

// ApplyTo stamps the status and its metadata on the booking
func (c StatusChange) ApplyTo(b *Booking) {
	at := c.At
	b.Status = c.Status
	b.UpdatedAt = at
	switch {
	case c.IsCancellation():
		b.CancelledBy = c.Actor.UserRef()
		b.CancelledAt = &at
		b.CancellationReason = c.Reason
	case c.IsCompletion():
		b.CompletedBy = c.Actor.UserRef()
		b.CompletedAt = &at
	}
}

// BookingChanges describes a partial update of a booking; nil fields stay as is
type BookingChanges struct {
	StartTime  *time.Time
	EndTime    *time.Time
	EmployeeID *int64
	ServiceID  *int64
	Price      *float64
	Notes      *string
}

// ChangesSchedule returns true if the update moves the booking in time or to another employee
func (c BookingChanges) ChangesSchedule(current *Booking) bool {
	if c.StartTime != nil && !c.StartTime.Equal(current.StartTime) {
		return true
	}
	if c.EndTime != nil && !c.EndTime.Equal(current.EndTime) {
		return true
	}
	if c.EmployeeID != nil && *c.EmployeeID != current.EmployeeID {
		return true
	}
	return false
}

// Apply returns a copy of the booking with the changes applied
func (c BookingChanges) Apply(current *Booking) *Booking {
	updated := *current
	if c.StartTime != nil {
		updated.StartTime = c.StartTime.UTC()
	}
	if c.EndTime != nil {
		updated.EndTime = c.EndTime.UTC()
	}
	if c.EmployeeID != nil {
		updated.EmployeeID = *c.EmployeeID
	}
	if c.ServiceID != nil {
		updated.ServiceID = *c.ServiceID
	}
	if c.Price != nil {
		updated.Price = *c.Price
	}
	if c.Notes != nil {
		updated.Notes = c.Notes
	}
	return &updated
}

// CustomerBookingsFilter фильтр истории бронирований клиента
type CustomerBookingsFilter struct {
	CustomerID int64
	Status     *BookingStatus
}

// CancelledBookingsFilter отбирает отмененные бронирования с CancelledAt в [From, To)
type CancelledBookingsFilter struct {
	From       time.Time
	To         time.Time
	LocationID *int64
}
