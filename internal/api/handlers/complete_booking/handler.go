package complete_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	engine BookingEngine
	logger Logger
}

func NewHandler(engine BookingEngine, logger Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/complete
// Тело запроса опционально: {"outcome": "completed" | "no_show" | "no_show_by_client" | "no_show_by_provider"}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/complete - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CompleteBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/complete - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	outcome := domain.OutcomeCompleted
	if req.Outcome != "" {
		outcome = domain.CompletionOutcome(req.Outcome)
	}

	booking, err := h.engine.Complete(r.Context(), bookingID, actor, outcome)
	if err != nil {
		if status := handlers.RespondServiceError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("PATCH /bookings/{id}/complete - Failed to complete booking: booking_id=%d, error=%v", bookingID, err)
		} else {
			h.logger.Warn("PATCH /bookings/{id}/complete - Completion rejected (%d): booking_id=%d, outcome=%s, error=%v",
				status, bookingID, outcome, err)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/complete - Booking completed: booking_id=%d, status=%s, user_id=%d",
		bookingID, booking.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
