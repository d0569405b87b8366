package selector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
)

const (
	locationID = int64(1)
	serviceID  = int64(1)
)

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type fakeRatings struct {
	ratings map[int64]float64
	err     error
}

func (f *fakeRatings) GetRatingWithGracefulDegradation(_ context.Context, employeeID int64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.ratings[employeeID], nil
}

func newStore(employees ...domain.Employee) *memory.Store {
	store := memory.NewStore()
	for _, e := range employees {
		store.AddEmployee(e)
		store.AddWorkWindow(domain.WorkWindow{EmployeeID: e.ID, LocationID: e.LocationID, Weekday: time.Monday, Start: "09:00", End: "17:00"})
	}
	return store
}

func newSelector(store *memory.Store, opts ...Option) *Selector {
	calc := availability.NewCalculator(store.Bookings(), store.Schedules(), store.Staff(), time.UTC)
	return NewSelector(store.Staff(), calc, logger.NewNop(), opts...)
}

func book(store *memory.Store, employeeID int64, start, end time.Time) {
	store.AddBooking(domain.Booking{
		Code:       start.Format("1504") + "E" + string(rune('0'+employeeID)),
		CustomerID: 1,
		EmployeeID: employeeID,
		LocationID: locationID,
		ServiceID:  serviceID,
		Status:     domain.StatusActive,
		StartTime:  start,
		EndTime:    end,
	})
}

func TestFindBest_Ranking(t *testing.T) {
	tests := []struct {
		name      string
		employees []domain.Employee
		booked    map[int64]time.Duration
		want      int64
	}{
		{
			name: "lowest workload wins",
			employees: []domain.Employee{
				{ID: 1, LocationID: locationID, IsActive: true, Rating: 5},
				{ID: 2, LocationID: locationID, IsActive: true, Rating: 3},
			},
			booked: map[int64]time.Duration{1: 2 * time.Hour, 2: time.Hour},
			want:   2,
		},
		{
			name: "equal workload, higher rating wins",
			employees: []domain.Employee{
				{ID: 1, LocationID: locationID, IsActive: true, Rating: 4.2},
				{ID: 2, LocationID: locationID, IsActive: true, Rating: 4.8},
			},
			want: 2,
		},
		{
			name: "full tie, lower id wins",
			employees: []domain.Employee{
				{ID: 7, LocationID: locationID, IsActive: true, Rating: 4.5},
				{ID: 3, LocationID: locationID, IsActive: true, Rating: 4.5},
			},
			want: 3,
		},
		{
			name: "unrated employee gets default rating",
			employees: []domain.Employee{
				{ID: 1, LocationID: locationID, IsActive: true, Rating: 3.9},
				{ID: 2, LocationID: locationID, IsActive: true},
			},
			want: 2,
		},
		{
			name: "unqualified employee is skipped",
			employees: []domain.Employee{
				{ID: 1, LocationID: locationID, IsActive: true, Rating: 5, ServiceIDs: []int64{99}},
				{ID: 2, LocationID: locationID, IsActive: true, Rating: 1, ServiceIDs: []int64{99, serviceID}},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(tt.employees...)
			for id, d := range tt.booked {
				book(store, id, at(14, 0), at(14, 0).Add(d))
			}

			best, err := newSelector(store).FindBest(context.Background(), locationID, serviceID, at(10, 0), at(10, 30))
			require.NoError(t, err)
			require.NotNil(t, best)
			assert.Equal(t, tt.want, best.ID)
		})
	}
}

func TestFindBest_SkipsBusyAndExcluded(t *testing.T) {
	store := newStore(
		domain.Employee{ID: 1, LocationID: locationID, IsActive: true, Rating: 5},
		domain.Employee{ID: 2, LocationID: locationID, IsActive: true, Rating: 4},
		domain.Employee{ID: 3, LocationID: locationID, IsActive: true, Rating: 3},
	)
	book(store, 1, at(10, 0), at(10, 30))
	sel := newSelector(store)
	ctx := context.Background()

	best, err := sel.FindBest(ctx, locationID, serviceID, at(10, 0), at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), best.ID)

	best, err = sel.FindBest(ctx, locationID, serviceID, at(10, 0), at(10, 30), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), best.ID)

	best, err = sel.FindBest(ctx, locationID, serviceID, at(10, 0), at(10, 30), 2, 3)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestFindBest_NobodyQualifies(t *testing.T) {
	store := newStore(domain.Employee{ID: 1, LocationID: 2, IsActive: true})

	best, err := newSelector(store).FindBest(context.Background(), locationID, serviceID, at(10, 0), at(10, 30))
	require.NoError(t, err)
	assert.Nil(t, best)

	_, err = newSelector(store).FindBest(context.Background(), locationID, serviceID, at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFindBest_RatingProvider(t *testing.T) {
	employees := []domain.Employee{
		{ID: 1, LocationID: locationID, IsActive: true, Rating: 5},
		{ID: 2, LocationID: locationID, IsActive: true, Rating: 3},
	}
	ctx := context.Background()

	best, err := newSelector(newStore(employees...), WithRatings(&fakeRatings{ratings: map[int64]float64{1: 2, 2: 4.9}})).
		FindBest(ctx, locationID, serviceID, at(10, 0), at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), best.ID, "external rating takes precedence")

	best, err = newSelector(newStore(employees...), WithRatings(&fakeRatings{err: errors.New("degraded")})).
		FindBest(ctx, locationID, serviceID, at(10, 0), at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), best.ID, "stored rating when the service is degraded")
}

func TestListCandidatesWithSlots(t *testing.T) {
	store := newStore(
		domain.Employee{ID: 1, LocationID: locationID, IsActive: true, Rating: 5},
		domain.Employee{ID: 2, LocationID: locationID, IsActive: true, Rating: 4},
		domain.Employee{ID: 3, LocationID: locationID, IsActive: true, Rating: 4},
	)
	store.AddLocationService(domain.LocationService{LocationID: locationID, ServiceID: serviceID, DurationMinutes: 45, TechBreakMinutes: 15, IsActive: true})
	book(store, 1, at(9, 0), at(11, 0))
	// employee 3 is fully booked
	book(store, 3, at(9, 0), at(17, 0))

	candidates, err := newSelector(store, WithConcurrency(2)).ListCandidatesWithSlots(context.Background(), locationID, serviceID, monday)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, int64(2), candidates[0].Employee.ID)
	assert.Len(t, candidates[0].Slots, 8)
	assert.Zero(t, candidates[0].Workload.BookedHours)

	assert.Equal(t, int64(1), candidates[1].Employee.ID)
	assert.Len(t, candidates[1].Slots, 6)
	assert.InDelta(t, 2.0, candidates[1].Workload.BookedHours, 1e-9)
	assert.Equal(t, 5.0, candidates[1].Rating)
	for _, s := range candidates[1].Slots {
		assert.Equal(t, time.Hour, s.Duration())
	}
}
