package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, если не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSavepoint возвращается, если не удалось создать, откатить или освободить точку сохранения
	ErrSavepoint = errors.New("txmanager: savepoint failed")
)

// TxBeginner источник транзакций: *dbmetrics.DB или обёртка над *sql.DB
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// ErrorMapper переводит ошибки драйвера (begin/commit) в доменные
type ErrorMapper func(error) error

// Manager управляет транзакциями и прокидывает их через context
type Manager struct {
	db     TxBeginner
	mapErr ErrorMapper
}

// Option настройка Manager
type Option func(*Manager)

// WithErrorMapper задает функцию классификации ошибок begin/commit
func WithErrorMapper(fn ErrorMapper) Option {
	return func(m *Manager) {
		m.mapErr = fn
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *Manager {
	m := &Manager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromSQLDB адаптирует *sql.DB без метрик к TxBeginner
func FromSQLDB(db *sql.DB) TxBeginner {
	return sqlDB{db: db}
}

type sqlDB struct {
	db *sql.DB
}

func (s sqlDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &dbmetrics.SqlTxWrapper{Tx: tx}, nil
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// Используется для операций "прочитать, проверить, записать" над бронированиями
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// Savepoint выполняет fn внутри точки сохранения текущей транзакции.
// Ошибка fn откатывает только сделанное в fn, внешняя транзакция остается рабочей
// (в Postgres ошибочный запрос иначе переводит всю транзакцию в состояние aborted).
// Вне транзакции fn выполняется как есть. name - SQL-идентификатор, задается вызывающим кодом
func (m *Manager) Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return fn(ctx)
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return m.mapped(fmt.Errorf("%w: create %s: %w", ErrSavepoint, name, err))
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return m.mapped(fmt.Errorf("%w: rollback to %s: %w (after: %v)", ErrSavepoint, name, rbErr, err))
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return m.mapped(fmt.Errorf("%w: release %s: %w", ErrSavepoint, name, err))
	}
	return nil
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return m.mapped(fmt.Errorf("%w: %w", ErrBeginTx, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return m.mapped(fmt.Errorf("%w: %w", ErrCommitTx, err))
	}

	return nil
}

func (m *Manager) mapped(err error) error {
	if m.mapErr == nil {
		return err
	}
	return m.mapErr(err)
}
