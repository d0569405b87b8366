package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// Query запрос проверки доступности сотрудника на полуинтервале [Start, End)
type Query struct {
	EmployeeID int64
	LocationID int64
	Start      time.Time
	End        time.Time
	// ExcludeBookingID исключает собственное бронирование при переносе
	ExcludeBookingID *int64
}

// Interval возвращает проверяемый интервал
func (q Query) Interval() domain.Interval {
	return domain.Interval{Start: q.Start, End: q.End}
}

// Calculator вычисляет доступность сотрудников "на лету" из графиков и бронирований.
// Все чтения идут через переданный контекст, поэтому внутри транзакции движка
// калькулятор видит те же данные, что и транзакция
type Calculator struct {
	bookings  BookingReader
	schedules ScheduleProvider
	catalog   ServiceCatalog
	loc       *time.Location
}

// NewCalculator создает калькулятор доступности.
// loc - часовой пояс, в котором заданы рабочие графики (nil = UTC)
func NewCalculator(bookings BookingReader, schedules ScheduleProvider, catalog ServiceCatalog, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{
		bookings:  bookings,
		schedules: schedules,
		catalog:   catalog,
		loc:       loc,
	}
}

// Location возвращает часовой пояс расписаний
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// IsAvailable проверяет, свободен ли сотрудник на интервале.
// Порядок проверок: пересечение с бронированиями, часы работы точки, рабочее окно и перерыв.
// Нарушение любого правила - (false, nil); ошибка валидации только для end <= start
func (c *Calculator) IsAvailable(ctx context.Context, q Query) (bool, error) {
	interval := q.Interval()
	if !interval.Valid() {
		return false, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidInterval,
			q.End.Format(time.RFC3339), q.Start.Format(time.RFC3339))
	}

	overlapping, err := c.bookings.FindOverlapping(ctx, q.EmployeeID, interval, q.ExcludeBookingID)
	if err != nil {
		return false, err
	}
	if len(overlapping) > 0 {
		return false, nil
	}

	date := q.Start.In(c.loc)

	open, err := c.locationOpen(ctx, q.LocationID, date, interval)
	if err != nil || !open {
		return false, err
	}

	window, err := c.schedules.GetWorkWindow(ctx, q.EmployeeID, q.LocationID, date.Weekday())
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	work, brk := window.On(date)
	if !work.Contains(interval) {
		return false, nil
	}
	if brk != nil && brk.Overlaps(interval) {
		return false, nil
	}

	return true, nil
}

// ListAvailableSlots возвращает свободные слоты сотрудника на день, упорядоченные по времени.
// Слоты идут подряд от начала рабочего окна с шагом slotDurationMinutes;
// отбрасываются слоты, задевающие перерыв, бронирования или выходящие за часы работы точки
func (c *Calculator) ListAvailableSlots(ctx context.Context, employeeID, locationID int64, date time.Time, slotDurationMinutes int) ([]domain.Slot, error) {
	if slotDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidSlotDuration, slotDurationMinutes)
	}

	day := c.beginningOfDay(date)

	window, err := c.schedules.GetWorkWindow(ctx, employeeID, locationID, day.Weekday())
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Slot{}, nil
	}
	if err != nil {
		return nil, err
	}

	hours, err := c.schedules.GetLocationHours(ctx, locationID, day.Weekday())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	work, brk := window.On(day)

	bookings, err := c.bookings.ListForEmployeeBetween(ctx, employeeID, work.Start, work.End)
	if err != nil {
		return nil, err
	}

	step := time.Duration(slotDurationMinutes) * time.Minute
	slots := make([]domain.Slot, 0)

	// Бронирования отсортированы по началу, поэтому один проход указателем next
	// покрывает все слоты дня
	next := 0
	for start := work.Start; !start.Add(step).After(work.End); start = start.Add(step) {
		slot := domain.Slot{Start: start, End: start.Add(step)}

		for next < len(bookings) && !bookings[next].EndTime.After(slot.Start) {
			next++
		}

		if brk != nil && brk.Overlaps(slot) {
			continue
		}
		if hours != nil && !hours.Covers(day, slot) {
			continue
		}
		if overlapsFrom(bookings, next, slot) {
			continue
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// Workload считает загрузку сотрудника за день: бронирования в блокирующих статусах,
// начало которых приходится на этот день
func (c *Calculator) Workload(ctx context.Context, employeeID int64, date time.Time) (*domain.WorkloadSnapshot, error) {
	dayStart := c.beginningOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := c.bookings.ListForEmployeeBetween(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.WorkloadSnapshot{EmployeeID: employeeID, Date: dayStart}
	for _, b := range bookings {
		if b.StartTime.Before(dayStart) || !b.StartTime.Before(dayEnd) {
			continue
		}
		snapshot.BookedHours += b.Duration().Hours()
		snapshot.BookingCount++
	}

	return snapshot, nil
}

// SlotDuration возвращает длительность слота услуги в точке: длительность услуги плюс технический перерыв.
// Если услуги нет в каталоге, используется длительность по умолчанию
func (c *Calculator) SlotDuration(ctx context.Context, locationID, serviceID int64) (int, error) {
	service, err := c.catalog.GetLocationService(ctx, locationID, serviceID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultServiceDurationMinutes, nil
	}
	if err != nil {
		return 0, err
	}
	return service.SlotDurationMinutes(), nil
}

// BeginningOfDay возвращает начало календарного дня date в часовом поясе расписаний
func (c *Calculator) BeginningOfDay(date time.Time) time.Time {
	return c.beginningOfDay(date)
}

func (c *Calculator) beginningOfDay(date time.Time) time.Time {
	return now.With(date.In(c.loc)).BeginningOfDay()
}

// locationOpen проверяет часы работы точки; отсутствие записи означает, что точка открыта
func (c *Calculator) locationOpen(ctx context.Context, locationID int64, date time.Time, interval domain.Interval) (bool, error) {
	hours, err := c.schedules.GetLocationHours(ctx, locationID, date.Weekday())
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return hours.Covers(date, interval), nil
}

func overlapsFrom(bookings []*domain.Booking, from int, slot domain.Slot) bool {
	for i := from; i < len(bookings) && bookings[i].StartTime.Before(slot.End); i++ {
		if bookings[i].Interval().Overlaps(slot) {
			return true
		}
	}
	return false
}
