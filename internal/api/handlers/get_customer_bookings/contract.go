package get_customer_bookings

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

type BookingEngine interface {
	ListForCustomer(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
