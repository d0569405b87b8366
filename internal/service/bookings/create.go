package bookings

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
)

// CreateRequest данные нового бронирования
type CreateRequest struct {
	CustomerID int64
	PetID      int64
	EmployeeID int64
	LocationID int64
	ServiceID  int64
	Start      time.Time
	End        time.Time
	Price      float64
	Notes      *string
}

// Interval возвращает запрошенный интервал
func (r CreateRequest) Interval() domain.Interval {
	return domain.Interval{Start: r.Start, End: r.End}
}

func (r CreateRequest) validate() error {
	if r.CustomerID <= 0 || r.PetID <= 0 || r.EmployeeID <= 0 || r.LocationID <= 0 || r.ServiceID <= 0 {
		return fmt.Errorf("%w: customer, pet, employee, location and service ids are required", ErrInvalidInput)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return validateNotes(r.Notes)
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// Create создает бронирование.
// Порядок проверок: интервал, время до начала и горизонт бронирования, доступность слота, дневная нагрузка.
// Доступность и нагрузка проверяются в сериализуемой транзакции под блокировкой сотрудника,
// поэтому из двух одновременных запросов на пересекающиеся интервалы успешен ровно один,
// второй получает ошибку конфликта
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*domain.Booking, error) {
	const op = "Create"

	e.logger.Info("%s: customer=%d employee=%d location=%d service=%d [%s, %s)", op,
		req.CustomerID, req.EmployeeID, req.LocationID, req.ServiceID,
		req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	// 1. Интервал
	interval := req.Interval()
	if !interval.Valid() {
		return nil, e.fail(op, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidInterval,
			req.End.Format(time.RFC3339), req.Start.Format(time.RFC3339)))
	}
	if err := req.validate(); err != nil {
		return nil, e.fail(op, err)
	}

	// 2. Временные правила точки
	now := e.clock.Now()
	rules, err := e.rules.Resolve(ctx, req.LocationID, req.ServiceID)
	if err != nil {
		return nil, e.fail(op, err)
	}
	if err := checkBookingWindow(rules, now, req.Start); err != nil {
		return nil, e.fail(op, err)
	}

	employee, err := e.employeeAt(ctx, req.EmployeeID, req.LocationID)
	if err != nil {
		return nil, e.fail(op, err)
	}
	if !employee.Qualifies(req.ServiceID) {
		return nil, e.fail(op, fmt.Errorf("%w: employee %d does not provide service %d",
			ErrInvalidInput, req.EmployeeID, req.ServiceID))
	}

	settings := e.currentSettings()
	status := rules.InitialStatus()
	if settings.RequireConfirmation {
		status = domain.StatusPendingConfirmation
	}

	var created *domain.Booking
	var out outbox

	err = e.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		out = nil

		// 3. Блокировка сотрудника и доступность через ту же транзакцию
		if err := e.bookings.LockEmployee(ctx, req.EmployeeID); err != nil {
			return err
		}
		if err := e.checkSlot(ctx, availability.Query{
			EmployeeID: req.EmployeeID,
			LocationID: req.LocationID,
			Start:      req.Start,
			End:        req.End,
		}); err != nil {
			return err
		}

		// 4. Дневная нагрузка под той же блокировкой
		if err := e.checkWorkload(ctx, employee, interval, nil); err != nil {
			return err
		}

		code, err := e.generateCode(ctx, settings.CodeAttempts)
		if err != nil {
			return err
		}

		created, err = e.bookings.Insert(ctx, &domain.Booking{
			Code:       code,
			CustomerID: req.CustomerID,
			PetID:      req.PetID,
			EmployeeID: req.EmployeeID,
			LocationID: req.LocationID,
			ServiceID:  req.ServiceID,
			Status:     status,
			StartTime:  req.Start.UTC(),
			EndTime:    req.End.UTC(),
			Price:      req.Price,
			Notes:      req.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		out.add(created, customerOf(created), domain.TemplateBookingCreated, now)
		out.add(created, employeeOf(created), domain.TemplateBookingCreated, now)
		return nil
	})
	if err != nil {
		return nil, e.fail(op, err)
	}

	e.metrics.BookingCreated(string(created.Status))
	e.logger.Info("%s: booking id=%d code=%s created with status %s", op, created.ID, created.Code, created.Status)

	e.publish(ctx, op, out)
	return created, nil
}

// checkBookingWindow проверяет минимальное время до начала и горизонт бронирования.
// Начало ровно через min_booking_lead_hours допустимо; max_booking_days = 0 снимает ограничение
func checkBookingWindow(rules *domain.BookingRules, now, start time.Time) error {
	earliest := now.Add(rules.MinLead())
	if start.Before(earliest) {
		return fmt.Errorf("%w: booking must start at least %d hours in advance (earliest %s)",
			ErrLeadTime, rules.MinBookingLeadHours, earliest.Format(time.RFC3339))
	}
	if rules.MaxBookingDays > 0 {
		latest := now.Add(rules.MaxAdvance())
		if start.After(latest) {
			return fmt.Errorf("%w: booking cannot start more than %d days ahead (latest %s)",
				ErrMaxAdvance, rules.MaxBookingDays, latest.Format(time.RFC3339))
		}
	}
	return nil
}

// employeeAt возвращает активного сотрудника точки
func (e *Engine) employeeAt(ctx context.Context, employeeID, locationID int64) (*domain.Employee, error) {
	employee, err := e.staff.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.IsActive || employee.LocationID != locationID {
		return nil, fmt.Errorf("%w: employee %d is not active at location %d",
			domain.ErrEmployeeNotFound, employeeID, locationID)
	}
	return employee, nil
}

func (e *Engine) checkSlot(ctx context.Context, q availability.Query) error {
	ok, err := e.availability.IsAvailable(ctx, q)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: employee %d is not available for [%s, %s)", ErrSlotUnavailable,
			q.EmployeeID, q.Start.Format(time.RFC3339), q.End.Format(time.RFC3339))
	}
	return nil
}

// checkWorkload проверяет, что нагрузка сотрудника за день с учетом нового интервала не превысит лимит.
// current - переносимое бронирование, его часы не учитываются повторно
func (e *Engine) checkWorkload(ctx context.Context, employee *domain.Employee, interval domain.Interval, current *domain.Booking) error {
	snapshot, err := e.availability.Workload(ctx, employee.ID, interval.Start)
	if err != nil {
		return err
	}

	booked := snapshot.BookedHours
	if current != nil && current.EmployeeID == employee.ID && current.BlocksSlot() &&
		e.availability.BeginningOfDay(current.StartTime).Equal(snapshot.Date) {
		booked -= current.Duration().Hours()
	}

	const epsilon = 1e-9
	projected := booked + interval.Duration().Hours()
	if projected > employee.DailyCapHours()+epsilon {
		return fmt.Errorf("%w: employee %d would work %.2f hours on %s, limit is %.2f", ErrWorkloadCap,
			employee.ID, projected, snapshot.Date.Format(domain.DateFormat), employee.DailyCapHours())
	}
	return nil
}
