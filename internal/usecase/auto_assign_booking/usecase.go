package auto_assign_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

const defaultMaxAttempts = 3

// UseCase use case бронирования с автоматическим выбором сотрудника
type UseCase struct {
	selector    EmployeeSelector
	engine      BookingCreator
	maxAttempts int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(selector EmployeeSelector, engine BookingCreator, logger Logger) *UseCase {
	return &UseCase{
		selector:    selector,
		engine:      engine,
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
	}
}

// Execute выбирает лучшего свободного сотрудника и создает бронирование.
// Выбор не резервирует слот: если сотрудника заняли раньше, он исключается и выбор повторяется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("AutoAssignBooking: customer=%d, location=%d, service=%d, [%s, %s)",
		req.CustomerID, req.LocationID, req.ServiceID, req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	if req.LocationID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: locationID and serviceID must be positive", ErrInvalidInput)
	}

	var lost []int64
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		employee, err := uc.selector.FindBest(ctx, req.LocationID, req.ServiceID, req.Start, req.End, lost...)
		if err != nil {
			uc.logger.Warn("AutoAssignBooking: selection failed: %v", err)
			return nil, err
		}
		if employee == nil {
			uc.logger.Info("AutoAssignBooking: nobody is available (attempt %d)", attempt)
			return nil, fmt.Errorf("%w: no employee available at location %d for service %d",
				ErrNoEmployeeAvailable, req.LocationID, req.ServiceID)
		}

		booking, err := uc.engine.Create(ctx, req.toCreateRequest(employee.ID))
		if err == nil {
			uc.logger.Info("AutoAssignBooking: booking id=%d assigned to employee=%d on attempt %d",
				booking.ID, employee.ID, attempt)
			return booking, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}

		uc.logger.Warn("AutoAssignBooking: employee=%d was taken concurrently, retrying: %v", employee.ID, err)
		lost = append(lost, employee.ID)
	}

	return nil, fmt.Errorf("%w: gave up after %d attempts", ErrNoEmployeeAvailable, uc.maxAttempts)
}
