package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInterval возвращается, если конец бронирования не позже начала
	ErrInvalidInterval = domain.NewRuleError(domain.ErrValidation, domain.RuleInterval)

	// ErrLeadTime возвращается, если до начала осталось меньше минимального времени
	ErrLeadTime = domain.NewRuleError(domain.ErrValidation, domain.RuleLeadTime)

	// ErrMaxAdvance возвращается, если бронирование слишком далеко в будущем
	ErrMaxAdvance = domain.NewRuleError(domain.ErrValidation, domain.RuleMaxAdvance)

	// ErrSlotUnavailable возвращается, если слот занят или сотрудник не работает в это время
	ErrSlotUnavailable = domain.NewRuleError(domain.ErrConflict, domain.RuleSlotUnavailable)

	// ErrWorkloadCap возвращается при превышении дневной нагрузки сотрудника
	ErrWorkloadCap = domain.NewRuleError(domain.ErrValidation, domain.RuleWorkloadCap)

	// ErrCancellationWindow возвращается, если клиент отменяет слишком поздно
	ErrCancellationWindow = domain.NewRuleError(domain.ErrValidation, domain.RuleCancellationWindow)

	// ErrTerminalState возвращается при попытке изменить завершенное или отмененное бронирование
	ErrTerminalState = domain.NewRuleError(domain.ErrValidation, domain.RuleTerminalState)

	// ErrTransition возвращается при недопустимом переходе статуса
	ErrTransition = domain.NewRuleError(domain.ErrValidation, domain.RuleTransition)

	// ErrActor возвращается, если пользователь не может выполнить действие над бронированием
	ErrActor = domain.NewRuleError(domain.ErrValidation, domain.RuleActor)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrCodeGeneration возвращается, если не удалось подобрать свободный код
	ErrCodeGeneration = errors.New("service: failed to generate unique booking code")
)
