package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/abuse"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules"
	"github.com/m04kA/PetCare-SchedulingService/pkg/clock"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
	"github.com/m04kA/PetCare-SchedulingService/pkg/ptr"
	"github.com/m04kA/PetCare-SchedulingService/pkg/types"
)

const (
	locationID = int64(1)
	serviceID  = int64(1)
	employeeA  = int64(1)
	employeeB  = int64(2)
	customer1  = int64(100)
	customer2  = int64(200)
	petID      = int64(5)
)

// sunday 2025-03-09 12:00 UTC, the day before the booked monday
var (
	sunday = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type recordingSink struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (s *recordingSink) Notify(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *recordingSink) templates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.TemplateKey)
	}
	return out
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

type countingMetrics struct {
	mu        sync.Mutex
	created   int
	conflicts int
	cancelled map[bool]int
	completed map[string]int
}

func (m *countingMetrics) BookingCreated(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *countingMetrics) BookingConflict(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *countingMetrics) BookingCancelled(_ string, isAbuse bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelled == nil {
		m.cancelled = map[bool]int{}
	}
	m.cancelled[isAbuse]++
}

func (m *countingMetrics) BookingCompleted(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed == nil {
		m.completed = map[string]int{}
	}
	m.completed[status]++
}

type fixture struct {
	store   *memory.Store
	clock   *clock.Fixed
	sink    *recordingSink
	metrics *countingMetrics
	calc    *availability.Calculator
	engine  *Engine
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	store := memory.NewStore()
	for _, id := range []int64{employeeA, employeeB} {
		store.AddEmployee(domain.Employee{ID: id, LocationID: locationID, IsActive: true, Rating: 4.5, MaxDailyHours: 8})
		store.AddWorkWindow(domain.WorkWindow{
			EmployeeID: id,
			LocationID: locationID,
			Weekday:    time.Monday,
			Start:      "09:00",
			End:        "17:00",
			BreakStart: ptr.Ptr(types.TimeString("13:00")),
			BreakEnd:   ptr.Ptr(types.TimeString("14:00")),
		})
	}

	clk := clock.NewFixed(sunday)
	log := logger.NewNop()
	sink := &recordingSink{}
	metrics := &countingMetrics{}

	calc := availability.NewCalculator(store.Bookings(), store.Schedules(), store.Staff(), time.UTC)
	cancellations := store.Cancellations()
	detector := abuse.NewDetector(cancellations, cancellations, cancellations, clk, log)
	rulesSvc := rules.NewService(store.Rules(), log)

	opts = append([]Option{WithMetrics(metrics)}, opts...)
	engine := NewEngine(store.Bookings(), calc, store.Staff(), rulesSvc, cancellations, detector, sink, store, clk, log, opts...)

	return &fixture{store: store, clock: clk, sink: sink, metrics: metrics, calc: calc, engine: engine}
}

func request(customerID, employeeID int64, start, end time.Time) CreateRequest {
	return CreateRequest{
		CustomerID: customerID,
		PetID:      petID,
		EmployeeID: employeeID,
		LocationID: locationID,
		ServiceID:  serviceID,
		Start:      start,
		End:        end,
		Price:      1500,
	}
}

func (f *fixture) create(t *testing.T, customerID, employeeID int64, start, end time.Time) *domain.Booking {
	t.Helper()
	b, err := f.engine.Create(context.Background(), request(customerID, employeeID, start, end))
	if err != nil {
		t.Fatalf("create [%s, %s): %v", start.Format(time.Kitchen), end.Format(time.Kitchen), err)
	}
	return b
}

// assertNoOverlaps проверяет, что блокирующие бронирования каждого сотрудника не пересекаются
func assertNoOverlaps(t *testing.T, f *fixture) {
	t.Helper()
	for _, id := range []int64{employeeA, employeeB} {
		list, err := f.store.Bookings().ListForEmployeeBetween(context.Background(), id, monday, monday.AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("list bookings: %v", err)
		}
		for i := range list {
			for j := i + 1; j < len(list); j++ {
				if list[i].Interval().Overlaps(list[j].Interval()) {
					t.Fatalf("bookings %d and %d of employee %d overlap", list[i].ID, list[j].ID, id)
				}
			}
		}
	}
}

var errSinkDown = errors.New("broker is down")

func availabilityQuery(employeeID int64, start, end time.Time) availability.Query {
	return availability.Query{EmployeeID: employeeID, LocationID: locationID, Start: start, End: end}
}
