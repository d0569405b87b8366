package availability

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// BookingReader чтение бронирований сотрудника
type BookingReader interface {
	FindOverlapping(ctx context.Context, employeeID int64, interval domain.Interval, excludeID *int64) ([]*domain.Booking, error)
	ListForEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error)
}

// ScheduleProvider рабочие графики сотрудников и часы работы точек
type ScheduleProvider interface {
	GetWorkWindow(ctx context.Context, employeeID, locationID int64, weekday time.Weekday) (*domain.WorkWindow, error)
	GetLocationHours(ctx context.Context, locationID int64, weekday time.Weekday) (*domain.LocationHours, error)
}

// ServiceCatalog каталог услуг точек
type ServiceCatalog interface {
	GetLocationService(ctx context.Context, locationID, serviceID int64) (*domain.LocationService, error)
}
