package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// SlotCalculator расчет свободных слотов сотрудника
type SlotCalculator interface {
	ListAvailableSlots(ctx context.Context, employeeID, locationID int64, date time.Time, slotDurationMinutes int) ([]domain.Slot, error)
	SlotDuration(ctx context.Context, locationID, serviceID int64) (int, error)
	BeginningOfDay(date time.Time) time.Time
}

// RulesResolver источник действующих правил бронирования
type RulesResolver interface {
	Resolve(ctx context.Context, locationID, serviceID int64) (*domain.BookingRules, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
