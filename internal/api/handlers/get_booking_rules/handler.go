package get_booking_rules

import (
	"net/http"
	"strconv"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidLocationID = "некорректный ID точки"
	msgInvalidServiceID  = "некорректный ID услуги"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/booking-rules
// Query params: serviceId (опционально)
// Публичный endpoint - без авторизации. Если правила не заданы, действующими считаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := handlers.PathID(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/booking-rules - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var serviceID *int64
	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/booking-rules - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	result, err := h.service.GetForLocation(r.Context(), locationID, serviceID)
	if err != nil {
		h.logger.Error("GET /locations/{id}/booking-rules - Failed to get rules: location_id=%d, error=%v", locationID, err)
		handlers.RespondServiceError(w, err)
		return
	}

	h.logger.Info("GET /locations/{id}/booking-rules - Rules retrieved successfully: location_id=%d, effective=%s",
		locationID, result.Effective.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
