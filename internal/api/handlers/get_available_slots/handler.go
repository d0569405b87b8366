package get_available_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidLocationID = "некорректный ID точки"
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingServiceID  = "ID услуги обязателен"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	loc     *time.Location
	logger  Logger
}

// NewHandler создает handler; loc - часовой пояс, в котором трактуется параметр date
func NewHandler(useCase GetAvailableSlotsUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/employees/{employeeId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := handlers.PathID(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/employees/{id}/available-slots - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/employees/{id}/available-slots - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/employees/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr, h.loc)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/employees/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		EmployeeID: employeeID,
		LocationID: locationID,
		ServiceID:  serviceID,
		Date:       date,
	})
	if err != nil {
		if status := handlers.RespondServiceError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /locations/{id}/employees/{id}/available-slots - Failed to get slots: location_id=%d, employee_id=%d, error=%v",
				locationID, employeeID, err)
		} else {
			h.logger.Warn("GET /locations/{id}/employees/{id}/available-slots - Request rejected (%d): %v", status, err)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/employees/{id}/available-slots - Slots retrieved successfully: location_id=%d, employee_id=%d, service_id=%d, slots_count=%d",
		locationID, employeeID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
