package bookings

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// Cancel отменяет бронирование.
// Клиент может отменить только свое бронирование и не позже чем за min_cancellation_hours до начала;
// отмены сотрудников, администраторов и системы окно не проверяют.
// В той же транзакции создается запись об отмене; для отмен клиентом флаг злоупотребления
// выставляет детектор по записям, существующим на момент отмены
func (e *Engine) Cancel(ctx context.Context, bookingID int64, actor domain.Actor, reason string) (*domain.Booking, error) {
	const op = "Cancel"

	e.logger.Info("%s: booking id=%d by user=%d (%s)", op, bookingID, actor.UserID, actor.Role)

	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return nil, e.fail(op, fmt.Errorf("%w: reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength))
	}

	// Правила злоупотреблений читаются до транзакции через кеш
	var abuseRules []*domain.AbuseRule
	if actor.Role == domain.RoleCustomer {
		abuseRules = e.activeAbuseRules(ctx)
	}

	now := e.clock.Now()

	var cancelled *domain.Booking
	var verdict domain.AbuseVerdict
	var out outbox

	err := e.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		out = nil
		verdict = domain.AbuseVerdict{}

		booking, err := e.bookings.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.IsTerminal() {
			return fmt.Errorf("%w: booking %d is already %s", ErrTerminalState, bookingID, booking.Status)
		}

		status := domain.StatusCancelledByProvider
		if actor.Role == domain.RoleCustomer {
			if !actor.IsCustomerOf(booking) {
				return fmt.Errorf("%w: customer %d does not own booking %d", ErrActor, actor.UserID, bookingID)
			}
			if err := e.checkCancellationWindow(ctx, booking, now); err != nil {
				return err
			}
			status = domain.StatusCancelledByClient
		}

		change := domain.StatusChange{Status: status, Actor: actor, At: now}
		if reason != "" {
			change.Reason = &reason
		}
		if err := e.bookings.UpdateStatus(ctx, booking.ID, change); err != nil {
			return err
		}
		change.ApplyTo(booking)

		if status == domain.StatusCancelledByClient {
			verdict = e.evaluateAbuse(ctx, booking.CustomerID, abuseRules)
		}

		if _, err := e.cancellations.Create(ctx, &domain.CancellationRecord{
			BookingID:   booking.ID,
			CustomerID:  booking.CustomerID,
			CancelledBy: actor.UserRef(),
			Initiator:   status,
			Reason:      reason,
			IsAbuse:     verdict.IsAbuse,
			AbuseRuleID: verdict.RuleID(),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		// Уведомляем противоположную сторону
		var n *domain.Notification
		if status == domain.StatusCancelledByClient {
			n = out.add(booking, employeeOf(booking), domain.TemplateBookingCancelledByClient, now)
		} else {
			n = out.add(booking, customerOf(booking), domain.TemplateBookingCancelledByProvider, now)
		}
		n.Data["reason"] = reason

		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, e.fail(op, err)
	}

	e.metrics.BookingCancelled(string(cancelled.Status), verdict.IsAbuse)
	if verdict.IsAbuse {
		e.logger.Warn("%s: cancellation of booking id=%d by customer=%d flagged as abuse by rule id=%d",
			op, cancelled.ID, cancelled.CustomerID, verdict.Rule.ID)
	}
	e.logger.Info("%s: booking id=%d is %s", op, cancelled.ID, cancelled.Status)

	e.publish(ctx, op, out)
	return cancelled, nil
}

// checkCancellationWindow отклоняет отмену клиентом позже start - min_cancellation_hours; ровно на границе отмена допустима
func (e *Engine) checkCancellationWindow(ctx context.Context, booking *domain.Booking, now time.Time) error {
	rules, err := e.rules.Resolve(ctx, booking.LocationID, booking.ServiceID)
	if err != nil {
		return err
	}

	deadline := booking.StartTime.Add(-rules.MinCancellationNotice())
	if now.After(deadline) {
		return fmt.Errorf("%w: cancellation is allowed at least %d hours before start (deadline %s)",
			ErrCancellationWindow, rules.MinCancellationHours, deadline.Format(time.RFC3339))
	}
	return nil
}

// activeAbuseRules загружает правила; ошибка конфигурации не должна мешать отмене
func (e *Engine) activeAbuseRules(ctx context.Context) []*domain.AbuseRule {
	if e.abuse == nil {
		return nil
	}
	rules, err := e.abuse.ActiveRules(ctx)
	if err != nil {
		e.logger.Error("Cancel: %v: abuse rules unavailable, cancellation will not be flagged: %v", domain.ErrFatalConfig, err)
		return nil
	}
	return rules
}

// abuseSavepoint точка сохранения вокруг проверки злоупотребления
const abuseSavepoint = "abuse_check"

// evaluateAbuse выносит вердикт; ошибка оценки считается отсутствием злоупотребления.
// Проверка идет в точке сохранения, чтобы упавший запрос не прервал транзакцию отмены
func (e *Engine) evaluateAbuse(ctx context.Context, customerID int64, rules []*domain.AbuseRule) domain.AbuseVerdict {
	if e.abuse == nil || len(rules) == 0 {
		return domain.AbuseVerdict{}
	}

	var verdict domain.AbuseVerdict
	err := e.txManager.Savepoint(ctx, abuseSavepoint, func(ctx context.Context) error {
		v, err := e.abuse.Evaluate(ctx, customerID, rules)
		if err != nil {
			return err
		}
		verdict = v
		return nil
	})
	if err != nil {
		e.logger.Error("Cancel: %v: abuse evaluation failed for customer=%d, treating as not abuse: %v",
			domain.ErrFatalConfig, customerID, err)
		return domain.AbuseVerdict{}
	}
	return verdict
}
