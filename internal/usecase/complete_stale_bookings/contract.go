package complete_stale_bookings

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// StaleBookingLister выборка незавершенных бронирований за окно
type StaleBookingLister interface {
	ListStale(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
}

// Completer завершение бронирования через движок
type Completer interface {
	Complete(ctx context.Context, bookingID int64, actor domain.Actor, outcome domain.CompletionOutcome) (*domain.Booking, error)
}

// SettingsProvider текущие настройки sweeper'а, перечитываются на каждом прогоне
type SettingsProvider interface {
	SweeperSettings() Settings
}

// Metrics метрики прогонов
type Metrics interface {
	SweeperRun(completed, failed int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
