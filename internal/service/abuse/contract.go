package abuse

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// CancellationCounter подсчет отмен клиента, помеченных как злоупотребление
type CancellationCounter interface {
	CountAbuse(ctx context.Context, customerID int64, since time.Time) (int, error)
}

// RuleSource источник активных правил злоупотреблений
type RuleSource interface {
	ListActiveRules(ctx context.Context) ([]*domain.AbuseRule, error)
}

// Moderator чтение записи об отмене и изменение ее флага злоупотребления
type Moderator interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.CancellationRecord, error)
	SetAbuseFlag(ctx context.Context, recordID int64, isAbuse bool, ruleID *int64) error
}

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
