package get_booking_rules

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	GetForLocation(ctx context.Context, locationID int64, serviceID *int64) (*models.LocationRulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
