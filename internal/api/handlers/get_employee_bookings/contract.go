package get_employee_bookings

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

type BookingEngine interface {
	ListForEmployeeDay(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
