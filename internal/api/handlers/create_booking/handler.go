package create_booking

import (
	"net/http"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "клиент может записывать только себя"
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

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Клиент бронирует только на себя; сотрудник может записать любого клиента
	if actor.Role == domain.RoleCustomer {
		if req.CustomerID != 0 && req.CustomerID != actor.UserID {
			h.logger.Warn("POST /bookings - Customer %d tried to book for customer %d", actor.UserID, req.CustomerID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		req.CustomerID = actor.UserID
	}

	booking, err := h.engine.Create(r.Context(), req.ToCreateRequest())
	if err != nil {
		if status := handlers.RespondServiceError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, employee_id=%d, error=%v",
				req.CustomerID, req.EmployeeID, err)
		} else {
			h.logger.Warn("POST /bookings - Booking rejected (%d): customer_id=%d, employee_id=%d, error=%v",
				status, req.CustomerID, req.EmployeeID, err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, employee_id=%d",
		booking.ID, booking.CustomerID, booking.EmployeeID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
