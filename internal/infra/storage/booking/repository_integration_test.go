//go:build integration

package booking

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/pgerr"
	"github.com/m04kA/PetCare-SchedulingService/pkg/txmanager"
)

// Тесты работают с мигрированной базой из PETCARE_TEST_DATABASE_DSN:
// go test -tags integration ./internal/infra/storage/booking/...

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PETCARE_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("PETCARE_TEST_DATABASE_DSN is not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(context.Background()))
	return db
}

func createEmployee(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowContext(context.Background(), "INSERT INTO employees (location_id) VALUES (1) RETURNING id").Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM bookings WHERE employee_id = $1", id)
		_, _ = db.ExecContext(context.Background(), "DELETE FROM employees WHERE id = $1", id)
	})
	return id
}

func activeBooking(employeeID int64, start time.Time, minutes int) *domain.Booking {
	return &domain.Booking{
		Code:       strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		CustomerID: 1,
		PetID:      1,
		EmployeeID: employeeID,
		LocationID: 1,
		ServiceID:  1,
		Status:     domain.StatusActive,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestIntegration_ExclusionConstraint(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	employeeID := createEmployee(t, db)
	ctx := context.Background()
	start := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)

	_, err := repo.Insert(ctx, activeBooking(employeeID, start, 30))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, activeBooking(employeeID, start.Add(15*time.Minute), 30))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// полуинтервалы: стык не пересечение
	_, err = repo.Insert(ctx, activeBooking(employeeID, start.Add(30*time.Minute), 30))
	require.NoError(t, err)
}

func TestIntegration_LockEmployeeSerializesWriters(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	employeeID := createEmployee(t, db)
	txm := txmanager.NewTransactionManager(txmanager.FromSQLDB(db), txmanager.WithErrorMapper(pgerr.Map))
	start := time.Now().UTC().Truncate(time.Hour).Add(72 * time.Hour)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		errs      []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := txm.DoSerializable(context.Background(), func(ctx context.Context) error {
				if err := repo.LockEmployee(ctx, employeeID); err != nil {
					return err
				}
				b := activeBooking(employeeID, start, 60)
				overlapping, err := repo.FindOverlapping(ctx, employeeID, b.Interval(), nil)
				if err != nil {
					return err
				}
				if len(overlapping) > 0 {
					return domain.ErrConflict
				}
				_, err = repo.Insert(ctx, b)
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
}

func TestIntegration_LockEmployeeBlocksSecondTransaction(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	employeeID := createEmployee(t, db)
	txm := txmanager.NewTransactionManager(txmanager.FromSQLDB(db), txmanager.WithErrorMapper(pgerr.Map))

	locked := make(chan struct{})
	release := make(chan struct{})
	holder := make(chan error, 1)
	go func() {
		holder <- txm.Do(context.Background(), func(ctx context.Context) error {
			if err := repo.LockEmployee(ctx, employeeID); err != nil {
				close(locked)
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err := txm.Do(ctx, func(ctx context.Context) error {
		return repo.LockEmployee(ctx, employeeID)
	})
	assert.Error(t, err, "lock is held by another transaction")

	close(release)
	require.NoError(t, <-holder)

	err = txm.Do(context.Background(), func(ctx context.Context) error {
		return repo.LockEmployee(ctx, employeeID)
	})
	assert.NoError(t, err)
}
