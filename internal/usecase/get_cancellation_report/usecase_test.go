package get_cancellation_report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
	"github.com/m04kA/PetCare-SchedulingService/pkg/ptr"
)

var march = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func addCancelled(store *memory.Store, locationID, serviceID int64, status domain.BookingStatus, cancelledAt time.Time) int64 {
	start := cancelledAt.Add(48 * time.Hour)
	return store.AddBooking(domain.Booking{
		Code:        cancelledAt.Format("0215") + string(status[10:12]),
		CustomerID:  10,
		EmployeeID:  1,
		LocationID:  locationID,
		ServiceID:   serviceID,
		Status:      status,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		CancelledAt: ptr.Ptr(cancelledAt),
	})
}

func newUseCase() (*memory.Store, *UseCase) {
	store := memory.NewStore()
	return store, NewUseCase(store.Bookings(), logger.NewNop())
}

func TestExecute_Statistics(t *testing.T) {
	store, uc := newUseCase()

	newest := addCancelled(store, 1, 1, domain.StatusCancelledByClient, march.Add(72*time.Hour))
	addCancelled(store, 1, 2, domain.StatusCancelledByClient, march.Add(24*time.Hour))
	addCancelled(store, 2, 1, domain.StatusCancelledByProvider, march.Add(48*time.Hour))
	// вне периода
	addCancelled(store, 1, 1, domain.StatusCancelledByClient, march.Add(-time.Minute))
	addCancelled(store, 1, 1, domain.StatusCancelledByClient, march.AddDate(0, 1, 0))
	// не отмена
	store.AddBooking(domain.Booking{Code: "DONE0001", LocationID: 1, ServiceID: 1, Status: domain.StatusCompleted,
		StartTime: march.Add(time.Hour), EndTime: march.Add(2 * time.Hour)})

	resp, err := uc.Execute(context.Background(), &Request{From: march, To: march.AddDate(0, 1, 0)})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.ByClient)
	assert.Equal(t, 1, resp.ByProvider)
	assert.Equal(t, []GroupCount{{ID: 1, Count: 2}, {ID: 2, Count: 1}}, resp.ByLocation)
	assert.Equal(t, []GroupCount{{ID: 1, Count: 2}, {ID: 2, Count: 1}}, resp.ByService)

	require.Len(t, resp.Cancellations, 3)
	assert.Equal(t, newest, resp.Cancellations[0].ID, "latest cancellation first")
	for i := 1; i < len(resp.Cancellations); i++ {
		assert.True(t, resp.Cancellations[i-1].CancelledAt.After(*resp.Cancellations[i].CancelledAt))
	}
}

func TestExecute_LocationFilter(t *testing.T) {
	store, uc := newUseCase()
	addCancelled(store, 1, 1, domain.StatusCancelledByClient, march.Add(time.Hour))
	addCancelled(store, 2, 1, domain.StatusCancelledByProvider, march.Add(2*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{From: march, To: march.AddDate(0, 0, 1), LocationID: ptr.Ptr(int64(2))})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(2), resp.Cancellations[0].LocationID)
	assert.Equal(t, 0, resp.ByClient)
	assert.Equal(t, 1, resp.ByProvider)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"missing from", Request{To: march}, ErrInvalidPeriod},
		{"reversed", Request{From: march.AddDate(0, 0, 1), To: march}, ErrInvalidPeriod},
		{"empty", Request{From: march, To: march}, ErrInvalidPeriod},
		{"too long", Request{From: march, To: march.AddDate(0, 0, MaxReportDays+1)}, ErrInvalidPeriod},
		{"bad location", Request{From: march, To: march.AddDate(0, 0, 1), LocationID: ptr.Ptr(int64(0))}, ErrInvalidInput},
	}

	_, uc := newUseCase()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
