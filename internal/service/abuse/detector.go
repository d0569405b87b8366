package abuse

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// Detector решает, является ли отмена клиента злоупотреблением
type Detector struct {
	counter   CancellationCounter
	rules     RuleSource
	moderator Moderator
	clock     Clock
	logger    Logger
}

// NewDetector создает детектор злоупотреблений
func NewDetector(counter CancellationCounter, rules RuleSource, moderator Moderator, clock Clock, logger Logger) *Detector {
	return &Detector{
		counter:   counter,
		rules:     rules,
		moderator: moderator,
		clock:     clock,
		logger:    logger,
	}
}

// ActiveRules загружает активные правила
func (d *Detector) ActiveRules(ctx context.Context) ([]*domain.AbuseRule, error) {
	rules, err := d.rules.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load abuse rules: %v", domain.ErrFatalConfig, err)
	}
	return rules, nil
}

// Evaluate проверяет правила по порядку: окно по возрастанию, затем порог, затем ID.
// Считаются только уже помеченные отмены клиента за окно правила;
// первое правило, где их не меньше порога, дает вердикт "злоупотребление"
func (d *Detector) Evaluate(ctx context.Context, customerID int64, rules []*domain.AbuseRule) (domain.AbuseVerdict, error) {
	ordered, err := orderRules(rules)
	if err != nil {
		return domain.AbuseVerdict{}, err
	}

	now := d.clock.Now()
	for _, r := range ordered {
		count, err := d.counter.CountAbuse(ctx, customerID, now.Add(-r.window))
		if err != nil {
			return domain.AbuseVerdict{}, err
		}
		if count >= r.rule.MaxCancellations {
			d.logger.Info("Evaluate: customer=%d matched abuse rule id=%d (%d >= %d within %s)",
				customerID, r.rule.ID, count, r.rule.MaxCancellations, r.rule.Period)
			return domain.AbuseVerdict{IsAbuse: true, Rule: r.rule}, nil
		}
	}

	return domain.AbuseVerdict{}, nil
}

// Moderate явно меняет флаг злоупотребления у записи об отмене
func (d *Detector) Moderate(ctx context.Context, recordID int64, isAbuse bool, ruleID *int64) error {
	if !isAbuse {
		ruleID = nil
	}
	if err := d.moderator.SetAbuseFlag(ctx, recordID, isAbuse, ruleID); err != nil {
		return err
	}
	d.logger.Info("Moderate: cancellation record id=%d is_abuse=%t", recordID, isAbuse)
	return nil
}

// ModerateBooking меняет флаг злоупотребления у записи об отмене бронирования
// и возвращает запись в новом состоянии
func (d *Detector) ModerateBooking(ctx context.Context, bookingID int64, isAbuse bool, ruleID *int64) (*domain.CancellationRecord, error) {
	record, err := d.moderator.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := d.Moderate(ctx, record.ID, isAbuse, ruleID); err != nil {
		return nil, err
	}

	record.IsAbuse = isAbuse
	record.AbuseRuleID = nil
	if isAbuse {
		record.AbuseRuleID = ruleID
	}
	return record, nil
}

type orderedRule struct {
	rule   *domain.AbuseRule
	window time.Duration
}

func orderRules(rules []*domain.AbuseRule) ([]orderedRule, error) {
	ordered := make([]orderedRule, 0, len(rules))
	for _, rule := range rules {
		if rule == nil || !rule.IsActive {
			continue
		}
		window, err := rule.Period.Window()
		if err != nil {
			return nil, fmt.Errorf("abuse rule id=%d: %w", rule.ID, err)
		}
		ordered = append(ordered, orderedRule{rule: rule, window: window})
	}

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.window != b.window {
			return a.window < b.window
		}
		if a.rule.MaxCancellations != b.rule.MaxCancellations {
			return a.rule.MaxCancellations < b.rule.MaxCancellations
		}
		return a.rule.ID < b.rule.ID
	})

	return ordered, nil
}
