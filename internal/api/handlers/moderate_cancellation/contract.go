package moderate_cancellation

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

type AbuseModerator interface {
	ModerateBooking(ctx context.Context, bookingID int64, isAbuse bool, ruleID *int64) (*domain.CancellationRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
