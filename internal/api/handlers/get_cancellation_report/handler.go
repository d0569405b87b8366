package get_cancellation_report

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	getCancellationReport "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_cancellation_report"
)

const (
	msgMissingPeriod     = "параметры from и to обязательны"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidLocationID = "некорректный ID точки"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "отчет по отменам доступен только персоналу"
)

type Handler struct {
	useCase GetCancellationReportUseCase
	loc     *time.Location
	logger  Logger
}

// NewHandler создает handler; loc - часовой пояс, в котором трактуются даты периода
func NewHandler(useCase GetCancellationReportUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/reports/cancellations?from=YYYY-MM-DD&to=YYYY-MM-DD[&locationId=N]
// Оба дня периода включаются в отчет
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if actor.Role == domain.RoleCustomer {
		h.logger.Warn("GET /reports/cancellations - Access denied: user_id=%d", actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	query := r.URL.Query()
	fromStr, toStr := query.Get("from"), query.Get("to")
	if fromStr == "" || toStr == "" {
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	from, err := handlers.ParseDate(fromStr, h.loc)
	if err != nil {
		h.logger.Warn("GET /reports/cancellations - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseDate(toStr, h.loc)
	if err != nil {
		h.logger.Warn("GET /reports/cancellations - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getCancellationReport.Request{From: from, To: to.AddDate(0, 0, 1)}
	if raw := query.Get("locationId"); raw != "" {
		locationID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /reports/cancellations - Invalid location ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLocationID)
			return
		}
		req.LocationID = &locationID
	}

	resp, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.logger.Warn("GET /reports/cancellations - Report rejected: %v", err)
		} else {
			h.logger.Error("GET /reports/cancellations - Failed to build report: %v", err)
		}
		handlers.RespondServiceError(w, err)
		return
	}

	h.logger.Info("GET /reports/cancellations - Report built successfully: from=%s, to=%s, total=%d", fromStr, toStr, resp.Total)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp, fromStr, toStr))
}
