package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrInvalidDate возвращается, если дата в прошлом
	ErrInvalidDate = fmt.Errorf("%w: invalid booking date", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение max_booking_days
	ErrDateTooFarInFuture = domain.NewRuleError(domain.ErrValidation, domain.RuleMaxAdvance)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
