package rules

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// RulesRepository интерфейс репозитория правил бронирования
type RulesRepository interface {
	Create(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error)
	GetByLocationAndService(ctx context.Context, locationID, serviceID *int64) (*domain.BookingRules, error)
	GetRulesWithHierarchy(ctx context.Context, locationID, serviceID int64) (*domain.BookingRules, error)
	GetAllByLocation(ctx context.Context, locationID int64) ([]*domain.BookingRules, error)
	Update(ctx context.Context, id int64, rules *domain.BookingRules) (*domain.BookingRules, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
