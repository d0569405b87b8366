package auto_assign_booking

import (
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrNoEmployeeAvailable возвращается, когда ни один сотрудник не свободен на интервал
	ErrNoEmployeeAvailable = domain.NewRuleError(domain.ErrConflict, domain.RuleSlotUnavailable)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)
)
