package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
)

type execRecorder struct {
	queries []string
	args    [][]interface{}
}

func (r *execRecorder) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return driver.RowsAffected(1), nil
}

func (r *execRecorder) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (r *execRecorder) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (r *execRecorder) Commit() error   { return nil }
func (r *execRecorder) Rollback() error { return nil }

func TestLockEmployee_NamespacedKey(t *testing.T) {
	tx := &execRecorder{}
	repo := NewRepository(nil)

	err := repo.LockEmployee(dbmetrics.WithTx(context.Background(), tx), 42)
	require.NoError(t, err)

	require.Len(t, tx.queries, 1)
	assert.Equal(t, "SELECT pg_advisory_xact_lock($1, $2)", tx.queries[0])
	assert.Equal(t, []interface{}{employeeLockNamespace, int32(42)}, tx.args[0])
}

func TestLockEmployee_RequiresTransaction(t *testing.T) {
	err := NewRepository(nil).LockEmployee(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotInTransaction)
}

func TestEmployeeLockKey(t *testing.T) {
	assert.Equal(t, int32(7), employeeLockKey(7))
	assert.Equal(t, int32(4), employeeLockKey(1<<32+5))
	assert.NotEqual(t, employeeLockKey(1), employeeLockKey(2))
}
