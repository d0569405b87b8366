package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules"
	"github.com/m04kA/PetCare-SchedulingService/pkg/clock"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
)

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newUseCase(now time.Time) (*memory.Store, *UseCase) {
	store := memory.NewStore()
	store.AddEmployee(domain.Employee{ID: 1, LocationID: 1, IsActive: true})
	store.AddWorkWindow(domain.WorkWindow{EmployeeID: 1, LocationID: 1, Weekday: time.Monday, Start: "09:00", End: "12:00"})
	store.AddLocationService(domain.LocationService{LocationID: 1, ServiceID: 1, DurationMinutes: 45, TechBreakMinutes: 15, IsActive: true})

	calc := availability.NewCalculator(store.Bookings(), store.Schedules(), store.Staff(), time.UTC)
	log := logger.NewNop()
	uc := NewUseCase(calc, rules.NewService(store.Rules(), log), clock.NewFixed(now), log)
	return store, uc
}

func TestExecute_UsesServiceDuration(t *testing.T) {
	_, uc := newUseCase(monday.Add(-24 * time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{EmployeeID: 1, LocationID: 1, ServiceID: 1, Date: monday.Add(15 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, monday, resp.Date)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, monday.Add(9*time.Hour), resp.Slots[0].Start)
	assert.Equal(t, monday.Add(12*time.Hour), resp.Slots[2].End)
}

func TestExecute_DropsSlotsInsideLeadTime(t *testing.T) {
	_, uc := newUseCase(monday.Add(8*time.Hour + 30*time.Minute))

	resp, err := uc.Execute(context.Background(), &Request{EmployeeID: 1, LocationID: 1, ServiceID: 1, Date: monday})
	require.NoError(t, err)

	// 09:00 is less than an hour away
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, monday.Add(10*time.Hour), resp.Slots[0].Start)
}

func TestExecute_DateValidation(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{"yesterday", monday.AddDate(0, 0, -1), ErrInvalidDate},
		{"beyond max booking days", monday.AddDate(0, 0, 31), ErrDateTooFarInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, uc := newUseCase(monday.Add(8 * time.Hour))

			_, err := uc.Execute(context.Background(), &Request{EmployeeID: 1, LocationID: 1, ServiceID: 1, Date: tt.date})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, uc := newUseCase(monday)
	_, err := uc.Execute(context.Background(), &Request{LocationID: 1, ServiceID: 1, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
