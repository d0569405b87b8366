package complete_booking

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

type BookingEngine interface {
	Complete(ctx context.Context, bookingID int64, actor domain.Actor, outcome domain.CompletionOutcome) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
