package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// CancellationRepository записи об отменах и правила злоупотреблений в памяти
type CancellationRepository struct {
	s *Store
}

// Create сохраняет запись об отмене
func (r *CancellationRepository) Create(ctx context.Context, record *domain.CancellationRecord) (*domain.CancellationRecord, error) {
	err := r.s.write(ctx, func(st *state) error {
		st.nextCancellationID++
		cp := *record
		cp.ID = st.nextCancellationID
		cp.CreatedAt = cp.CreatedAt.UTC()
		st.cancellations[cp.ID] = &cp
		record.ID = cp.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CountAbuse считает записи клиента с флагом злоупотребления, созданные не раньше since
func (r *CancellationRepository) CountAbuse(ctx context.Context, customerID int64, since time.Time) (int, error) {
	count := 0
	err := r.s.read(ctx, func(st *state) error {
		for _, rec := range st.cancellations {
			if rec.CustomerID == customerID && rec.IsAbuse && !rec.CreatedAt.Before(since) {
				count++
			}
		}
		return nil
	})
	return count, err
}

// GetByBookingID получает запись об отмене бронирования
func (r *CancellationRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.CancellationRecord, error) {
	var found *domain.CancellationRecord
	err := r.s.read(ctx, func(st *state) error {
		for _, rec := range st.cancellations {
			if rec.BookingID == bookingID {
				cp := *rec
				found = &cp
				return nil
			}
		}
		return domain.ErrCancellationNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// SetAbuseFlag меняет флаг злоупотребления у записи
func (r *CancellationRepository) SetAbuseFlag(ctx context.Context, recordID int64, isAbuse bool, ruleID *int64) error {
	return r.s.write(ctx, func(st *state) error {
		rec, ok := st.cancellations[recordID]
		if !ok {
			return domain.ErrCancellationNotFound
		}
		rec.IsAbuse = isAbuse
		rec.AbuseRuleID = ruleID
		return nil
	})
}

// ListActiveRules возвращает активные правила злоупотреблений по возрастанию ID
func (r *CancellationRepository) ListActiveRules(ctx context.Context) ([]*domain.AbuseRule, error) {
	rules := make([]*domain.AbuseRule, 0)
	err := r.s.read(ctx, func(st *state) error {
		for _, rule := range st.abuseRules {
			if rule.IsActive {
				cp := *rule
				rules = append(rules, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules, nil
}
