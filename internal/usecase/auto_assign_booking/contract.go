package auto_assign_booking

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
)

// EmployeeSelector подбор сотрудника
type EmployeeSelector interface {
	FindBest(ctx context.Context, locationID, serviceID int64, start, end time.Time, exclude ...int64) (*domain.Employee, error)
}

// BookingCreator создание бронирования через движок
type BookingCreator interface {
	Create(ctx context.Context, req bookings.CreateRequest) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
