package bookings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
)

// UpdateRequest частичное изменение бронирования; nil поля не меняются
type UpdateRequest struct {
	Start      *time.Time
	End        *time.Time
	EmployeeID *int64
	ServiceID  *int64
	Price      *float64
	Notes      *string
}

// IsEmpty возвращает true, если запрос ничего не меняет
func (r UpdateRequest) IsEmpty() bool {
	return r.Start == nil && r.End == nil && r.EmployeeID == nil &&
		r.ServiceID == nil && r.Price == nil && r.Notes == nil
}

func (r UpdateRequest) changes() domain.BookingChanges {
	return domain.BookingChanges{
		StartTime:  r.Start,
		EndTime:    r.End,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		Price:      r.Price,
		Notes:      r.Notes,
	}
}

func (r UpdateRequest) validate() error {
	if r.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if r.EmployeeID != nil && *r.EmployeeID <= 0 {
		return fmt.Errorf("%w: employee id must be positive", ErrInvalidInput)
	}
	if r.ServiceID != nil && *r.ServiceID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}
	if r.Price != nil && *r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return validateNotes(r.Notes)
}

// Update изменяет незавершенное бронирование.
// При переносе по времени или на другого сотрудника повторяет проверки Create,
// исключая само бронирование. Блокировки сотрудников берутся по возрастанию id,
// затем блокируется строка бронирования
func (e *Engine) Update(ctx context.Context, bookingID int64, req UpdateRequest, actor domain.Actor) (*domain.Booking, error) {
	const op = "Update"

	e.logger.Info("%s: booking id=%d by user=%d (%s)", op, bookingID, actor.UserID, actor.Role)

	if err := req.validate(); err != nil {
		return nil, e.fail(op, err)
	}

	// Текущий сотрудник нужен до транзакции, чтобы заблокировать сотрудников в одном порядке
	current, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, e.fail(op, err)
	}
	employeeIDs := lockOrder(current.EmployeeID, req.EmployeeID)

	now := e.clock.Now()

	var updated *domain.Booking
	var rescheduled bool
	var out outbox

	err = e.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		out = nil

		for _, id := range employeeIDs {
			if err := e.bookings.LockEmployee(ctx, id); err != nil {
				return err
			}
		}

		booking, err := e.bookings.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.EmployeeID != current.EmployeeID {
			return fmt.Errorf("%w: booking %d was reassigned concurrently", domain.ErrConflict, bookingID)
		}
		if actor.Role == domain.RoleCustomer && !actor.IsCustomerOf(booking) {
			return fmt.Errorf("%w: customer %d does not own booking %d", ErrActor, actor.UserID, bookingID)
		}
		if booking.IsTerminal() {
			return fmt.Errorf("%w: booking %d is already %s", ErrTerminalState, bookingID, booking.Status)
		}

		changes := req.changes()
		next := changes.Apply(booking)
		rescheduled = changes.ChangesSchedule(booking)

		if rescheduled || next.ServiceID != booking.ServiceID {
			if err := e.checkReschedule(ctx, booking, next, now); err != nil {
				return err
			}
		}

		next.UpdatedAt = now
		if err := e.bookings.Update(ctx, next); err != nil {
			return err
		}

		if rescheduled {
			out.add(next, customerOf(next), domain.TemplateBookingRescheduled, now)
			out.add(next, employeeOf(next), domain.TemplateBookingRescheduled, now)
			if next.EmployeeID != booking.EmployeeID {
				out.add(next, employeeOf(booking), domain.TemplateBookingRescheduled, now)
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, e.fail(op, err)
	}

	e.logger.Info("%s: booking id=%d updated (rescheduled=%t)", op, updated.ID, rescheduled)

	e.publish(ctx, op, out)
	return updated, nil
}

// checkReschedule повторяет проверки Create для нового времени, сотрудника или услуги
func (e *Engine) checkReschedule(ctx context.Context, current, next *domain.Booking, now time.Time) error {
	interval := next.Interval()
	if !interval.Valid() {
		return fmt.Errorf("%w: end %s must be after start %s", ErrInvalidInterval,
			next.EndTime.Format(time.RFC3339), next.StartTime.Format(time.RFC3339))
	}

	if !next.StartTime.Equal(current.StartTime) {
		rules, err := e.rules.Resolve(ctx, next.LocationID, next.ServiceID)
		if err != nil {
			return err
		}
		if err := checkBookingWindow(rules, now, next.StartTime); err != nil {
			return err
		}
	}

	employee, err := e.employeeAt(ctx, next.EmployeeID, next.LocationID)
	if err != nil {
		return err
	}
	if !employee.Qualifies(next.ServiceID) {
		return fmt.Errorf("%w: employee %d does not provide service %d", ErrInvalidInput, employee.ID, next.ServiceID)
	}

	if err := e.checkSlot(ctx, availability.Query{
		EmployeeID:       next.EmployeeID,
		LocationID:       next.LocationID,
		Start:            next.StartTime,
		End:              next.EndTime,
		ExcludeBookingID: &current.ID,
	}); err != nil {
		return err
	}

	return e.checkWorkload(ctx, employee, interval, current)
}

// lockOrder возвращает id сотрудников для блокировки без повторов и по возрастанию
func lockOrder(currentID int64, newID *int64) []int64 {
	ids := []int64{currentID}
	if newID != nil && *newID != currentID {
		ids = append(ids, *newID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
