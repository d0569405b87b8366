package update_booking

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
)

type BookingEngine interface {
	Update(ctx context.Context, bookingID int64, req bookings.UpdateRequest, actor domain.Actor) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
