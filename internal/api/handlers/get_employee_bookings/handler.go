package get_employee_bookings

import (
	"net/http"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "расписание сотрудника доступно только персоналу"
)

type Handler struct {
	engine BookingEngine
	loc    *time.Location
	logger Logger
}

// NewHandler создает handler; loc - часовой пояс, в котором трактуется параметр date
func NewHandler(engine BookingEngine, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		engine: engine,
		loc:    loc,
		logger: logger,
	}
}

// Handle GET /api/v1/employees/{employeeId}/bookings?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("GET /employees/{id}/bookings - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if actor.Role == domain.RoleCustomer {
		h.logger.Warn("GET /employees/{id}/bookings - Access denied: employee_id=%d, user_id=%d", employeeID, actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr, h.loc)
	if err != nil {
		h.logger.Warn("GET /employees/{id}/bookings - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	list, err := h.engine.ListForEmployeeDay(r.Context(), employeeID, date)
	if err != nil {
		h.logger.Error("GET /employees/{id}/bookings - Failed to get bookings: employee_id=%d, error=%v", employeeID, err)
		handlers.RespondServiceError(w, err)
		return
	}

	h.logger.Info("GET /employees/{id}/bookings - Bookings retrieved successfully: employee_id=%d, date=%s, count=%d",
		employeeID, dateStr, len(list))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBookingList(list))
}
