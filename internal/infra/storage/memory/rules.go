package memory

import (
	"context"
	"sort"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// RulesRepository правила бронирования в памяти
type RulesRepository struct {
	s *Store
}

// Create сохраняет новые правила
func (r *RulesRepository) Create(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error) {
	err := r.s.write(ctx, func(st *state) error {
		st.nextRulesID++
		cp := *rules
		cp.ID = st.nextRulesID
		st.rules[cp.ID] = &cp
		rules.ID = cp.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// GetByLocationAndService получает правила ровно для пары (locationID, serviceID); nil означает "для всех"
func (r *RulesRepository) GetByLocationAndService(ctx context.Context, locationID, serviceID *int64) (*domain.BookingRules, error) {
	var found *domain.BookingRules
	err := r.s.read(ctx, func(st *state) error {
		found = findRules(st, locationID, serviceID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.ErrRulesNotFound
	}
	return found, nil
}

// GetRulesWithHierarchy получает правила с учетом иерархии:
// (точка, услуга) -> (точка, *) -> (*, услуга) -> (*, *)
func (r *RulesRepository) GetRulesWithHierarchy(ctx context.Context, locationID, serviceID int64) (*domain.BookingRules, error) {
	var found *domain.BookingRules
	err := r.s.read(ctx, func(st *state) error {
		levels := [][2]*int64{
			{&locationID, &serviceID},
			{&locationID, nil},
			{nil, &serviceID},
			{nil, nil},
		}
		for _, level := range levels {
			if found = findRules(st, level[0], level[1]); found != nil {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.ErrRulesNotFound
	}
	return found, nil
}

// GetAllByLocation получает правила точки вместе с глобальными
func (r *RulesRepository) GetAllByLocation(ctx context.Context, locationID int64) ([]*domain.BookingRules, error) {
	result := make([]*domain.BookingRules, 0)
	err := r.s.read(ctx, func(st *state) error {
		for _, rules := range st.rules {
			if rules.LocationID == nil || *rules.LocationID == locationID {
				cp := *rules
				result = append(result, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return rulesRank(result[i]) < rulesRank(result[j]) ||
			(rulesRank(result[i]) == rulesRank(result[j]) && result[i].ID < result[j].ID)
	})
	return result, nil
}

// Update обновляет значения правил
func (r *RulesRepository) Update(ctx context.Context, id int64, rules *domain.BookingRules) (*domain.BookingRules, error) {
	var updated *domain.BookingRules
	err := r.s.write(ctx, func(st *state) error {
		current, ok := st.rules[id]
		if !ok {
			return domain.ErrRulesNotFound
		}
		current.MinBookingLeadHours = rules.MinBookingLeadHours
		current.MaxBookingDays = rules.MaxBookingDays
		current.MinCancellationHours = rules.MinCancellationHours
		current.RequireConfirmation = rules.RequireConfirmation
		current.UpdatedAt = rules.UpdatedAt
		cp := *current
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func findRules(st *state, locationID, serviceID *int64) *domain.BookingRules {
	for _, rules := range st.rules {
		if sameRef(rules.LocationID, locationID) && sameRef(rules.ServiceID, serviceID) {
			cp := *rules
			return &cp
		}
	}
	return nil
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// rulesRank глобальные правила первыми, затем правила услуг, точки и услуги в точке
func rulesRank(r *domain.BookingRules) int {
	rank := 0
	if r.LocationID != nil {
		rank += 2
	}
	if r.ServiceID != nil {
		rank++
	}
	return rank
}
