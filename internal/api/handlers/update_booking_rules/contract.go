package update_booking_rules

import (
	"context"

	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	Upsert(ctx context.Context, req *models.UpsertRulesRequest) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
