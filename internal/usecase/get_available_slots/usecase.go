package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// UseCase use case для получения доступных слотов сотрудника под услугу
type UseCase struct {
	calculator   SlotCalculator
	rules        RulesResolver
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calculator SlotCalculator,
	rules RulesResolver,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		calculator:   calculator,
		rules:        rules,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Длительность слота берется из каталога услуг точки, слоты раньше минимального
// времени до записи не предлагаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: employee=%d, location=%d, service=%d, date=%s",
		req.EmployeeID, req.LocationID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и правила точки
	now := uc.timeProvider.Now()
	day := uc.calculator.BeginningOfDay(req.Date)

	rules, err := uc.rules.Resolve(ctx, req.LocationID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve booking rules: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve booking rules: %w", ErrInternal, err)
	}

	// 3. Валидация даты с учетом правил
	if err := validateDate(day, uc.calculator.BeginningOfDay(now), rules); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Длительность слота из каталога услуг
	duration, err := uc.calculator.SlotDuration(ctx, req.LocationID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get service duration: %v", err)
		return nil, fmt.Errorf("%w: failed to get service duration: %w", ErrInternal, err)
	}

	// 5. Свободные слоты сотрудника
	free, err := uc.calculator.ListAvailableSlots(ctx, req.EmployeeID, req.LocationID, day, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %w", ErrInternal, err)
	}
	free = dropTooSoon(free, now.Add(rules.MinLead()))

	slots := make([]Slot, 0, len(free))
	for _, s := range free {
		slots = append(slots, Slot{Start: s.Start, End: s.End})
	}

	uc.logger.Info("GetAvailableSlots: %d slots of %d minutes for employee=%d on %s",
		len(slots), duration, req.EmployeeID, day.Format(domain.DateFormat))

	return &Response{
		Date:            day,
		EmployeeID:      req.EmployeeID,
		LocationID:      req.LocationID,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}
