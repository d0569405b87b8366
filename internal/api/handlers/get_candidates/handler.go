package get_candidates

import (
	"net/http"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidLocationID = "некорректный ID точки"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	selector EmployeeSelector
	loc      *time.Location
	logger   Logger
}

func NewHandler(selector EmployeeSelector, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		selector: selector,
		loc:      loc,
		logger:   logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/services/{serviceId}/candidates?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := handlers.PathID(r, "locationId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
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
		h.logger.Warn("GET /locations/{id}/services/{id}/candidates - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	candidates, err := h.selector.ListCandidatesWithSlots(r.Context(), locationID, serviceID, date)
	if err != nil {
		h.logger.Error("GET /locations/{id}/services/{id}/candidates - Failed to list candidates: location_id=%d, service_id=%d, error=%v",
			locationID, serviceID, err)
		handlers.RespondServiceError(w, err)
		return
	}

	h.logger.Info("GET /locations/{id}/services/{id}/candidates - location_id=%d, service_id=%d, date=%s, count=%d",
		locationID, serviceID, dateStr, len(candidates))
	handlers.RespondJSON(w, http.StatusOK, FromCandidates(dateStr, locationID, serviceID, candidates))
}
