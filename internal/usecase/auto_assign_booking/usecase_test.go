package auto_assign_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
)

var start = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

// fakeSelector отдает сотрудников по порядку, пропуская исключенных
type fakeSelector struct {
	order    []int64
	excluded [][]int64
}

func (s *fakeSelector) FindBest(_ context.Context, _, _ int64, _, _ time.Time, exclude ...int64) (*domain.Employee, error) {
	s.excluded = append(s.excluded, append([]int64(nil), exclude...))
	for _, id := range s.order {
		skip := false
		for _, ex := range exclude {
			if ex == id {
				skip = true
			}
		}
		if !skip {
			return &domain.Employee{ID: id}, nil
		}
	}
	return nil, nil
}

// fakeEngine возвращает конфликт для занятых сотрудников
type fakeEngine struct {
	busy  map[int64]bool
	err   error
	calls []int64
}

func (e *fakeEngine) Create(_ context.Context, req bookings.CreateRequest) (*domain.Booking, error) {
	e.calls = append(e.calls, req.EmployeeID)
	if e.err != nil {
		return nil, e.err
	}
	if e.busy[req.EmployeeID] {
		return nil, fmt.Errorf("%w: taken", bookings.ErrSlotUnavailable)
	}
	return &domain.Booking{ID: 1, EmployeeID: req.EmployeeID, StartTime: req.Start, EndTime: req.End}, nil
}

func request() *Request {
	return &Request{CustomerID: 1, PetID: 1, LocationID: 1, ServiceID: 1, Start: start, End: start.Add(30 * time.Minute)}
}

func TestExecute_FirstChoice(t *testing.T) {
	sel := &fakeSelector{order: []int64{4, 5}}
	engine := &fakeEngine{}

	b, err := NewUseCase(sel, engine, logger.NewNop()).Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, int64(4), b.EmployeeID)
	assert.Equal(t, []int64{4}, engine.calls)
}

func TestExecute_RetriesWithoutLostEmployee(t *testing.T) {
	sel := &fakeSelector{order: []int64{4, 5, 6}}
	engine := &fakeEngine{busy: map[int64]bool{4: true, 5: true}}

	b, err := NewUseCase(sel, engine, logger.NewNop()).Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, int64(6), b.EmployeeID)
	assert.Equal(t, []int64{4, 5, 6}, engine.calls)
	assert.Equal(t, []int64{4, 5}, sel.excluded[2])
}

func TestExecute_GivesUpAfterThreeConflicts(t *testing.T) {
	sel := &fakeSelector{order: []int64{1, 2, 3, 4}}
	engine := &fakeEngine{busy: map[int64]bool{1: true, 2: true, 3: true}}

	_, err := NewUseCase(sel, engine, logger.NewNop()).Execute(context.Background(), request())
	assert.ErrorIs(t, err, ErrNoEmployeeAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, engine.calls, 3)
}

func TestExecute_NobodyAvailable(t *testing.T) {
	_, err := NewUseCase(&fakeSelector{}, &fakeEngine{}, logger.NewNop()).Execute(context.Background(), request())
	assert.ErrorIs(t, err, ErrNoEmployeeAvailable)
}

func TestExecute_ValidationErrorIsNotRetried(t *testing.T) {
	engine := &fakeEngine{err: fmt.Errorf("%w: too soon", bookings.ErrLeadTime)}

	_, err := NewUseCase(&fakeSelector{order: []int64{1, 2}}, engine, logger.NewNop()).Execute(context.Background(), request())
	assert.ErrorIs(t, err, bookings.ErrLeadTime)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.Len(t, engine.calls, 1)
}
