package get_candidates

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/service/selector"
)

type EmployeeSelector interface {
	ListCandidatesWithSlots(ctx context.Context, locationID, serviceID int64, date time.Time) ([]selector.Candidate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
