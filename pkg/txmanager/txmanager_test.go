package txmanager

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

// recordingTx запоминает выполненные команды
type recordingTx struct {
	statements []string
	failOn     string
	committed  bool
	rolledBack bool
}

func (tx *recordingTx) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	tx.statements = append(tx.statements, query)
	if query == tx.failOn {
		return nil, errors.New("connection reset")
	}
	return driver.RowsAffected(0), nil
}

func (tx *recordingTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (tx *recordingTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (tx *recordingTx) Commit() error {
	tx.committed = true
	return nil
}

func (tx *recordingTx) Rollback() error {
	tx.rolledBack = true
	return nil
}

type beginner struct {
	tx *recordingTx
}

func (b beginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	return b.tx, nil
}

func TestManager_SavepointRollsBackOnlyInnerWork(t *testing.T) {
	tx := &recordingTx{}
	m := NewTransactionManager(beginner{tx: tx})
	errBoom := errors.New("statement timeout")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		err := m.Savepoint(ctx, "abuse_check", func(context.Context) error {
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"SAVEPOINT abuse_check", "ROLLBACK TO SAVEPOINT abuse_check"}, tx.statements)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestManager_SavepointReleasedOnSuccess(t *testing.T) {
	tx := &recordingTx{}
	m := NewTransactionManager(beginner{tx: tx})

	called := false
	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Savepoint(ctx, "abuse_check", func(context.Context) error {
			called = true
			return nil
		})
	})
	require.NoError(t, err)

	assert.True(t, called)
	assert.Equal(t, []string{"SAVEPOINT abuse_check", "RELEASE SAVEPOINT abuse_check"}, tx.statements)
	assert.True(t, tx.committed)
}

func TestManager_SavepointCreateFailure(t *testing.T) {
	tx := &recordingTx{failOn: "SAVEPOINT abuse_check"}
	m := NewTransactionManager(beginner{tx: tx})

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Savepoint(ctx, "abuse_check", func(context.Context) error {
			t.Fatal("fn must not run without a savepoint")
			return nil
		})
	})
	require.ErrorIs(t, err, ErrSavepoint)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestManager_SavepointOutsideTransaction(t *testing.T) {
	tx := &recordingTx{}
	m := NewTransactionManager(beginner{tx: tx})

	called := false
	err := m.Savepoint(context.Background(), "abuse_check", func(ctx context.Context) error {
		called = true
		assert.False(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, tx.statements)
}
