package update_booking_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules/models"
)

const (
	msgInvalidLocationID  = "некорректный ID точки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/locations/{locationId}/booking-rules
// Создает правила уровня точки (или услуги в точке, если передан serviceId) либо обновляет переданные поля
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	locationID, err := handlers.PathID(r, "locationId")
	if err != nil {
		h.logger.Warn("PUT /locations/{id}/booking-rules - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpsertRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /locations/{id}/booking-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.LocationID = locationID
	req.Actor = actor

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("PUT /locations/{id}/booking-rules - Access denied: location_id=%d, user_id=%d", locationID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			if status := handlers.RespondServiceError(w, err); status >= http.StatusInternalServerError {
				h.logger.Error("PUT /locations/{id}/booking-rules - Failed to save rules: location_id=%d, error=%v", locationID, err)
			} else {
				h.logger.Warn("PUT /locations/{id}/booking-rules - Rules rejected (%d): %v", status, err)
			}
		}
		return
	}

	h.logger.Info("PUT /locations/{id}/booking-rules - Rules saved successfully: location_id=%d, rules_id=%d, level=%s",
		locationID, result.ID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
