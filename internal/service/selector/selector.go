package selector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
)

const defaultConcurrency = 8

// ErrInvalidInterval возвращается, если конец окна не позже начала
var ErrInvalidInterval = domain.NewRuleError(domain.ErrValidation, domain.RuleInterval)

// Candidate сотрудник, доступный для записи, с его слотами на день
type Candidate struct {
	Employee *domain.Employee
	Slots    []domain.Slot
	Workload *domain.WorkloadSnapshot
	Rating   float64
}

// Option настройка Selector
type Option func(*Selector)

// WithRatings подключает внешний источник рейтингов; при его недоступности используется сохраненный рейтинг
func WithRatings(p RatingProvider) Option {
	return func(s *Selector) {
		s.ratings = p
	}
}

// WithConcurrency ограничивает число сотрудников, оцениваемых параллельно
func WithConcurrency(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// Selector подбирает сотрудника для автоматической записи.
// Выбор носит рекомендательный характер: бронирование все равно проходит проверки движка
type Selector struct {
	staff        StaffDirectory
	availability AvailabilityCalculator
	ratings      RatingProvider
	concurrency  int
	logger       Logger
}

// NewSelector создает подборщик сотрудников
func NewSelector(staff StaffDirectory, calc AvailabilityCalculator, logger Logger, opts ...Option) *Selector {
	s := &Selector{
		staff:        staff,
		availability: calc,
		concurrency:  defaultConcurrency,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindBest возвращает лучшего свободного сотрудника на интервал или nil, если подходящих нет.
// Порядок: меньшая загрузка за день, затем более высокий рейтинг, затем меньший ID.
// exclude - сотрудники, которых не нужно рассматривать (например, уже проигравшие гонку за слот)
func (s *Selector) FindBest(ctx context.Context, locationID, serviceID int64, start, end time.Time, exclude ...int64) (*domain.Employee, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidInterval,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	employees, err := s.qualified(ctx, locationID, serviceID, exclude)
	if err != nil {
		return nil, err
	}

	results := make([]*Candidate, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, employee := range employees {
		g.Go(func() error {
			ok, err := s.availability.IsAvailable(gctx, availability.Query{
				EmployeeID: employee.ID,
				LocationID: locationID,
				Start:      start,
				End:        end,
			})
			if err != nil || !ok {
				return err
			}

			workload, err := s.availability.Workload(gctx, employee.ID, start)
			if err != nil {
				return err
			}

			results[i] = &Candidate{Employee: employee, Workload: workload, Rating: s.rating(gctx, employee)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := compact(results)
	if len(candidates) == 0 {
		s.logger.Info("FindBest: no available employee at location=%d for service=%d [%s, %s)",
			locationID, serviceID, start.Format(time.RFC3339), end.Format(time.RFC3339))
		return nil, nil
	}

	rank(candidates)
	best := candidates[0]
	s.logger.Info("FindBest: picked employee=%d (workload %.2fh, rating %.2f) out of %d",
		best.Employee.ID, best.Workload.BookedHours, best.Rating, len(candidates))
	return best.Employee, nil
}

// ListCandidatesWithSlots возвращает сотрудников точки со свободными слотами на день,
// упорядоченных так же, как в FindBest. Сотрудники без свободных слотов не попадают в список
func (s *Selector) ListCandidatesWithSlots(ctx context.Context, locationID, serviceID int64, date time.Time) ([]Candidate, error) {
	duration, err := s.availability.SlotDuration(ctx, locationID, serviceID)
	if err != nil {
		return nil, err
	}

	employees, err := s.qualified(ctx, locationID, serviceID, nil)
	if err != nil {
		return nil, err
	}

	results := make([]*Candidate, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, employee := range employees {
		g.Go(func() error {
			slots, err := s.availability.ListAvailableSlots(gctx, employee.ID, locationID, date, duration)
			if err != nil || len(slots) == 0 {
				return err
			}

			workload, err := s.availability.Workload(gctx, employee.ID, date)
			if err != nil {
				return err
			}

			results[i] = &Candidate{Employee: employee, Slots: slots, Workload: workload, Rating: s.rating(gctx, employee)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := compact(results)
	rank(candidates)

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, *c)
	}
	return out, nil
}

// qualified активные сотрудники точки, которые оказывают услугу
func (s *Selector) qualified(ctx context.Context, locationID, serviceID int64, exclude []int64) ([]*domain.Employee, error) {
	employees, err := s.staff.ListForLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	skip := make(map[int64]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	result := make([]*domain.Employee, 0, len(employees))
	for _, e := range employees {
		if _, ok := skip[e.ID]; ok {
			continue
		}
		if e.IsActive && e.LocationID == locationID && e.Qualifies(serviceID) {
			result = append(result, e)
		}
	}
	return result, nil
}

// rating берет рейтинг из внешнего сервиса, если он настроен и доступен, иначе сохраненный
func (s *Selector) rating(ctx context.Context, e *domain.Employee) float64 {
	if s.ratings == nil {
		return e.EffectiveRating()
	}
	r, err := s.ratings.GetRatingWithGracefulDegradation(ctx, e.ID)
	if err != nil || r <= 0 {
		return e.EffectiveRating()
	}
	return r
}

func compact(results []*Candidate) []*Candidate {
	out := make([]*Candidate, 0, len(results))
	for _, c := range results {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// rank сортирует кандидатов: загрузка по возрастанию, рейтинг по убыванию, ID по возрастанию
func rank(candidates []*Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Workload.BookedHours != b.Workload.BookedHours {
			return a.Workload.BookedHours < b.Workload.BookedHours
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Employee.ID < b.Employee.ID
	})
}
