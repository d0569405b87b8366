package get_cancellation_report

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// CancelledBookingLister источник отмененных бронирований за период
type CancelledBookingLister interface {
	ListCancelled(ctx context.Context, filter domain.CancelledBookingsFilter) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
