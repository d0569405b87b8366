package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules/models"
	"github.com/m04kA/PetCare-SchedulingService/pkg/ptr"
)

// Service сервис для работы с правилами бронирования
type Service struct {
	rulesRepo RulesRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил бронирования
func NewService(rulesRepo RulesRepository, logger Logger) *Service {
	return &Service{
		rulesRepo: rulesRepo,
		logger:    logger,
	}
}

// Resolve возвращает правила, действующие для услуги в точке
// Приоритет: service@location > location > service > global > встроенные значения по умолчанию
func (s *Service) Resolve(ctx context.Context, locationID, serviceID int64) (*domain.BookingRules, error) {
	rules, err := s.rulesRepo.GetRulesWithHierarchy(ctx, locationID, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrRulesNotFound) {
			return domain.DefaultBookingRules(), nil
		}
		s.logger.Error("Resolve: repository error for location=%d, service=%d: %v", locationID, serviceID, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %w", ErrInternal, err)
	}
	return rules, nil
}

// GetForLocation получает действующие правила точки (для услуги, если указана) и все заданные уровни
func (s *Service) GetForLocation(ctx context.Context, locationID int64, serviceID *int64) (*models.LocationRulesResponse, error) {
	s.logger.Info("GetForLocation: fetching rules for location=%d, service=%v", locationID, serviceID)

	var effective *domain.BookingRules
	var err error
	if serviceID != nil {
		effective, err = s.Resolve(ctx, locationID, *serviceID)
	} else {
		effective, err = s.resolveLocation(ctx, locationID)
	}
	if err != nil {
		return nil, err
	}

	all, err := s.rulesRepo.GetAllByLocation(ctx, locationID)
	if err != nil {
		s.logger.Error("GetForLocation: repository error for location=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: GetForLocation - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetForLocation: location=%d has %d rule levels, effective level: %s",
		locationID, len(all), models.Level(effective))
	return &models.LocationRulesResponse{
		Effective: *models.FromDomainRules(effective),
		Rules:     models.FromDomainRulesList(all),
	}, nil
}

// Upsert создает или частично обновляет правила точки (для услуги, если указана)
// Доступно только сотрудникам и администраторам
func (s *Service) Upsert(ctx context.Context, req *models.UpsertRulesRequest) (*models.RulesResponse, error) {
	s.logger.Info("Upsert: rules for location=%d, service=%v by user=%d (%s)",
		req.LocationID, req.ServiceID, req.Actor.UserID, req.Actor.Role)

	// 1. Проверяем права доступа
	if req.Actor.Role != domain.RoleStaff && req.Actor.Role != domain.RoleAdmin {
		s.logger.Warn("Upsert: user=%d with role %s may not change booking rules", req.Actor.UserID, req.Actor.Role)
		return nil, fmt.Errorf("%w: only staff or admin may change booking rules", ErrAccessDenied)
	}

	// 2. Ищем существующие правила ровно этого уровня
	existing, err := s.rulesRepo.GetByLocationAndService(ctx, ptr.Ptr(req.LocationID), req.ServiceID)
	if err != nil && !errors.Is(err, domain.ErrRulesNotFound) {
		s.logger.Error("Upsert: failed to check existing rules: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %w", ErrInternal, err)
	}

	// 3. Применяем обновления к копии и валидируем
	var rules domain.BookingRules
	if existing != nil {
		rules = *existing
	} else {
		rules = *domain.DefaultBookingRules()
		rules.LocationID = ptr.Ptr(req.LocationID)
		rules.ServiceID = req.ServiceID
	}
	req.ApplyTo(&rules)

	if err := validateRules(&rules); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	var saved *domain.BookingRules
	if existing != nil {
		saved, err = s.rulesRepo.Update(ctx, existing.ID, &rules)
	} else {
		saved, err = s.rulesRepo.Create(ctx, &rules)
	}
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved rules id=%d (level: %s)", saved.ID, models.Level(saved))
	return models.FromDomainRules(saved), nil
}

// resolveLocation действующие правила точки без учета услуги: location > global > по умолчанию
func (s *Service) resolveLocation(ctx context.Context, locationID int64) (*domain.BookingRules, error) {
	for _, loc := range []*int64{ptr.Ptr(locationID), nil} {
		rules, err := s.rulesRepo.GetByLocationAndService(ctx, loc, nil)
		if err == nil {
			return rules, nil
		}
		if !errors.Is(err, domain.ErrRulesNotFound) {
			s.logger.Error("GetForLocation: repository error for location=%d: %v", locationID, err)
			return nil, fmt.Errorf("%w: resolveLocation - repository error: %w", ErrInternal, err)
		}
	}
	return domain.DefaultBookingRules(), nil
}

// validateRules валидирует значения правил
func validateRules(r *domain.BookingRules) error {
	if r.MinBookingLeadHours < domain.MinBookingLeadHours || r.MinBookingLeadHours > domain.MaxBookingLeadHours {
		return fmt.Errorf("%w: minBookingLeadHours must be between %d and %d",
			ErrInvalidInput, domain.MinBookingLeadHours, domain.MaxBookingLeadHours)
	}
	if r.MaxBookingDays < domain.MinBookingDays || r.MaxBookingDays > domain.MaxBookingDays {
		return fmt.Errorf("%w: maxBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinBookingDays, domain.MaxBookingDays)
	}
	if r.MinCancellationHours < domain.MinCancellationHours || r.MinCancellationHours > domain.MaxCancellationHours {
		return fmt.Errorf("%w: minCancellationHours must be between %d and %d",
			ErrInvalidInput, domain.MinCancellationHours, domain.MaxCancellationHours)
	}
	return nil
}
