package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что день не в прошлом и не дальше горизонта бронирования.
// day и today - начала дней в часовом поясе расписаний
func validateDate(day, today time.Time, rules *domain.BookingRules) error {
	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, day.Format(domain.DateFormat))
	}

	// Если max_booking_days = 0, нет ограничений на дату
	if rules.MaxBookingDays == 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, rules.MaxBookingDays)
	if day.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.MaxBookingDays)
	}

	return nil
}

// dropTooSoon отбрасывает слоты, начинающиеся раньше минимального времени до записи
func dropTooSoon(slots []domain.Slot, earliest time.Time) []domain.Slot {
	result := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.Start.Before(earliest) {
			result = append(result, s)
		}
	}
	return result
}
