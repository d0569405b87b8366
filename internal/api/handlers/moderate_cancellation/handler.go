package moderate_cancellation

import (
	"net/http"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIsAbuse     = "поле isAbuse обязательно"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "модерация отмен доступна только персоналу"
)

type Handler struct {
	moderator AbuseModerator
	logger    Logger
}

func NewHandler(moderator AbuseModerator, logger Logger) *Handler {
	return &Handler{
		moderator: moderator,
		logger:    logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancellation/abuse
// Тело: {"isAbuse": true, "abuseRuleId": 1}; при isAbuse=false правило сбрасывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancellation/abuse - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	if actor.Role == domain.RoleCustomer {
		h.logger.Warn("PATCH /bookings/{id}/cancellation/abuse - Access denied: booking_id=%d, user_id=%d", bookingID, actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req ModerationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancellation/abuse - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.IsAbuse == nil {
		handlers.RespondBadRequest(w, msgMissingIsAbuse)
		return
	}

	record, err := h.moderator.ModerateBooking(r.Context(), bookingID, *req.IsAbuse, req.AbuseRuleID)
	if err != nil {
		if status := handlers.RespondServiceError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /bookings/{id}/cancellation/abuse - Failed to moderate: booking_id=%d, error=%v", bookingID, err)
		} else {
			h.logger.Warn("PATCH /bookings/{id}/cancellation/abuse - Moderation rejected (%d): %v", status, err)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancellation/abuse - Cancellation moderated: booking_id=%d, is_abuse=%t, by user=%d",
		bookingID, record.IsAbuse, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainRecord(record))
}
