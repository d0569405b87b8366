package get_cancellation_report

import (
	"context"

	getCancellationReport "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_cancellation_report"
)

type GetCancellationReportUseCase interface {
	Execute(ctx context.Context, req *getCancellationReport.Request) (*getCancellationReport.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
