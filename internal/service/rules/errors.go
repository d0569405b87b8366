package rules

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrAccessDenied возвращается, когда правила меняет не сотрудник и не администратор
	ErrAccessDenied = domain.NewRuleError(domain.ErrValidation, domain.RuleActor)

	// ErrInvalidInput возвращается при некорректных значениях правил
	ErrInvalidInput = fmt.Errorf("%w: invalid booking rules", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules service: internal error")
)
