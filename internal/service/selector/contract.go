package selector

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
)

// StaffDirectory список сотрудников точки
type StaffDirectory interface {
	ListForLocation(ctx context.Context, locationID int64) ([]*domain.Employee, error)
}

// AvailabilityCalculator расчет доступности, слотов и загрузки
type AvailabilityCalculator interface {
	IsAvailable(ctx context.Context, q availability.Query) (bool, error)
	ListAvailableSlots(ctx context.Context, employeeID, locationID int64, date time.Time, slotDurationMinutes int) ([]domain.Slot, error)
	Workload(ctx context.Context, employeeID int64, date time.Time) (*domain.WorkloadSnapshot, error)
	SlotDuration(ctx context.Context, locationID, serviceID int64) (int, error)
}

// RatingProvider внешний источник рейтингов сотрудников
type RatingProvider interface {
	GetRatingWithGracefulDegradation(ctx context.Context, employeeID int64) (float64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
