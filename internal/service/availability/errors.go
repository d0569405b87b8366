package availability

import "github.com/m04kA/PetCare-SchedulingService/internal/domain"

var (
	// ErrInvalidInterval возвращается, если конец интервала не позже начала
	ErrInvalidInterval = domain.NewRuleError(domain.ErrValidation, domain.RuleInterval)

	// ErrInvalidSlotDuration возвращается при неположительной длительности слота
	ErrInvalidSlotDuration = domain.NewRuleError(domain.ErrValidation, domain.RuleInterval)
)
