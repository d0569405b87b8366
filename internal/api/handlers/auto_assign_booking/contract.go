package auto_assign_booking

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	autoAssignBooking "github.com/m04kA/PetCare-SchedulingService/internal/usecase/auto_assign_booking"
)

type AutoAssignBookingUseCase interface {
	Execute(ctx context.Context, req *autoAssignBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
