package auto_assign_booking

import (
	"net/http"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings/models"
	autoAssignBooking "github.com/m04kA/PetCare-SchedulingService/internal/usecase/auto_assign_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "клиент может записывать только себя"
)

type Handler struct {
	useCase AutoAssignBookingUseCase
	logger  Logger
}

func NewHandler(useCase AutoAssignBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/auto-assign
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/auto-assign - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AutoAssignBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/auto-assign - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if actor.Role == domain.RoleCustomer {
		if req.CustomerID != 0 && req.CustomerID != actor.UserID {
			h.logger.Warn("POST /bookings/auto-assign - Customer %d tried to book for customer %d", actor.UserID, req.CustomerID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		req.CustomerID = actor.UserID
	}

	booking, err := h.useCase.Execute(r.Context(), &autoAssignBooking.Request{
		CustomerID: req.CustomerID,
		PetID:      req.PetID,
		LocationID: req.LocationID,
		ServiceID:  req.ServiceID,
		Start:      req.StartTime,
		End:        req.EndTime,
		Price:      req.Price,
		Notes:      req.Notes,
	})
	if err != nil {
		if status := handlers.RespondServiceError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings/auto-assign - Failed to create booking: customer_id=%d, location_id=%d, error=%v",
				req.CustomerID, req.LocationID, err)
		} else {
			h.logger.Warn("POST /bookings/auto-assign - Booking rejected (%d): customer_id=%d, location_id=%d, error=%v",
				status, req.CustomerID, req.LocationID, err)
		}
		return
	}

	h.logger.Info("POST /bookings/auto-assign - Booking created successfully: booking_id=%d, employee_id=%d",
		booking.ID, booking.EmployeeID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
