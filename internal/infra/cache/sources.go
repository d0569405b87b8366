package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// ScheduleSource источник рабочих графиков и часов работы точек
type ScheduleSource interface {
	GetWorkWindow(ctx context.Context, employeeID, locationID int64, weekday time.Weekday) (*domain.WorkWindow, error)
	GetLocationHours(ctx context.Context, locationID int64, weekday time.Weekday) (*domain.LocationHours, error)
}

// AbuseRuleSource источник правил злоупотреблений
type AbuseRuleSource interface {
	ListActiveRules(ctx context.Context) ([]*domain.AbuseRule, error)
}

// Schedules кэширующая обертка над ScheduleSource
type Schedules struct {
	next   ScheduleSource
	loader *loader
}

// NewSchedules создает кэширующий источник рабочих графиков
func NewSchedules(next ScheduleSource, backend Backend, ttl time.Duration, logger Logger) *Schedules {
	return &Schedules{next: next, loader: newLoader(backend, ttl, logger)}
}

// GetWorkWindow получает рабочее окно сотрудника
func (s *Schedules) GetWorkWindow(ctx context.Context, employeeID, locationID int64, weekday time.Weekday) (*domain.WorkWindow, error) {
	key := fmt.Sprintf("work_window:%d:%d:%d", employeeID, locationID, int(weekday))
	return load(ctx, s.loader, key, domain.ErrWorkWindowNotFound, func(ctx context.Context) (*domain.WorkWindow, error) {
		return s.next.GetWorkWindow(ctx, employeeID, locationID, weekday)
	})
}

// GetLocationHours получает часы работы точки
func (s *Schedules) GetLocationHours(ctx context.Context, locationID int64, weekday time.Weekday) (*domain.LocationHours, error) {
	key := fmt.Sprintf("location_hours:%d:%d", locationID, int(weekday))
	return load(ctx, s.loader, key, domain.ErrLocationHoursNotFound, func(ctx context.Context) (*domain.LocationHours, error) {
		return s.next.GetLocationHours(ctx, locationID, weekday)
	})
}

// AbuseRules кэширующая обертка над AbuseRuleSource
type AbuseRules struct {
	next   AbuseRuleSource
	loader *loader
}

// NewAbuseRules создает кэширующий источник правил злоупотреблений
func NewAbuseRules(next AbuseRuleSource, backend Backend, ttl time.Duration, logger Logger) *AbuseRules {
	return &AbuseRules{next: next, loader: newLoader(backend, ttl, logger)}
}

// ListActiveRules получает активные правила злоупотреблений
func (a *AbuseRules) ListActiveRules(ctx context.Context) ([]*domain.AbuseRule, error) {
	return load(ctx, a.loader, "abuse_rules:active", domain.ErrNotFound, a.next.ListActiveRules)
}
