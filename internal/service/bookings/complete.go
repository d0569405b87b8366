package bookings

import (
	"context"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// Complete фиксирует итог визита: completed, no_show (клиент не пришел),
// no_show_by_client или no_show_by_provider.
// Отмененные и уже завершенные бронирования не меняются: возвращается ошибка terminal_state
func (e *Engine) Complete(ctx context.Context, bookingID int64, actor domain.Actor, outcome domain.CompletionOutcome) (*domain.Booking, error) {
	const op = "Complete"

	status, err := outcome.Status()
	if err != nil {
		return nil, e.fail(op, err)
	}
	if actor.Role == domain.RoleCustomer {
		return nil, e.fail(op, fmt.Errorf("%w: customers cannot complete bookings", ErrActor))
	}

	template := domain.TemplateBookingCompleted
	if actor.IsSystem() {
		template = domain.TemplateBookingAutoCompleted
	}

	now := e.clock.Now()

	var completed *domain.Booking
	var out outbox

	err = e.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		out = nil

		booking, err := e.transition(ctx, bookingID, domain.StatusChange{Status: status, Actor: actor, At: now})
		if err != nil {
			return err
		}

		out.add(booking, customerOf(booking), template, now)
		completed = booking
		return nil
	})
	if err != nil {
		return nil, e.fail(op, err)
	}

	e.metrics.BookingCompleted(string(completed.Status))
	e.logger.Info("%s: booking id=%d is %s (by %s)", op, completed.ID, completed.Status, actor.Role)

	e.publish(ctx, op, out)
	return completed, nil
}

// Confirm подтверждает бронирование: pending_confirmation -> active
func (e *Engine) Confirm(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	const op = "Confirm"

	if actor.Role == domain.RoleCustomer {
		return nil, e.fail(op, fmt.Errorf("%w: customers cannot confirm bookings", ErrActor))
	}

	now := e.clock.Now()

	var confirmed *domain.Booking
	var out outbox

	err := e.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		out = nil

		booking, err := e.transition(ctx, bookingID, domain.StatusChange{Status: domain.StatusActive, Actor: actor, At: now})
		if err != nil {
			return err
		}

		out.add(booking, customerOf(booking), domain.TemplateBookingConfirmed, now)
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, e.fail(op, err)
	}

	e.logger.Info("%s: booking id=%d confirmed by user=%d", op, confirmed.ID, actor.UserID)

	e.publish(ctx, op, out)
	return confirmed, nil
}

// transition блокирует бронирование и переводит его в новый статус по таблице переходов
func (e *Engine) transition(ctx context.Context, bookingID int64, change domain.StatusChange) (*domain.Booking, error) {
	booking, err := e.bookings.LockByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsTerminal() {
		return nil, fmt.Errorf("%w: booking %d is already %s", ErrTerminalState, bookingID, booking.Status)
	}
	if !domain.CanTransition(booking.Status, change.Status) {
		return nil, fmt.Errorf("%w: %s -> %s is not allowed", ErrTransition, booking.Status, change.Status)
	}

	if err := e.bookings.UpdateStatus(ctx, booking.ID, change); err != nil {
		return nil, err
	}
	change.ApplyTo(booking)
	return booking, nil
}
