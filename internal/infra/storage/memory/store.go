package memory

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
)

// ErrNotInTransaction возвращается блокирующими методами, вызванными вне транзакции
var ErrNotInTransaction = errors.New("memory: lock requires an active transaction")

// errNoSQL возвращается, если в транзакцию хранилища в памяти пытаются отправить SQL
var errNoSQL = errors.New("memory: store does not execute SQL")

type windowKey struct {
	employeeID int64
	locationID int64
	weekday    time.Weekday
}

type hoursKey struct {
	locationID int64
	weekday    time.Weekday
}

type serviceKey struct {
	locationID int64
	serviceID  int64
}

type state struct {
	bookings      map[int64]*domain.Booking
	cancellations map[int64]*domain.CancellationRecord
	rules         map[int64]*domain.BookingRules
	abuseRules    map[int64]*domain.AbuseRule
	employees     map[int64]*domain.Employee
	workWindows   map[windowKey]*domain.WorkWindow
	locationHours map[hoursKey]*domain.LocationHours
	services      map[serviceKey]*domain.LocationService

	nextBookingID      int64
	nextCancellationID int64
	nextRulesID        int64
	nextAbuseRuleID    int64
}

func newState() *state {
	return &state{
		bookings:      make(map[int64]*domain.Booking),
		cancellations: make(map[int64]*domain.CancellationRecord),
		rules:         make(map[int64]*domain.BookingRules),
		abuseRules:    make(map[int64]*domain.AbuseRule),
		employees:     make(map[int64]*domain.Employee),
		workWindows:   make(map[windowKey]*domain.WorkWindow),
		locationHours: make(map[hoursKey]*domain.LocationHours),
		services:      make(map[serviceKey]*domain.LocationService),
	}
}

// clone копирует изменяемые таблицы; справочники (сотрудники, графики) общие
func (s *state) clone() *state {
	c := *s
	c.bookings = make(map[int64]*domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		cp := *b
		c.bookings[id] = &cp
	}
	c.cancellations = make(map[int64]*domain.CancellationRecord, len(s.cancellations))
	for id, r := range s.cancellations {
		cp := *r
		c.cancellations[id] = &cp
	}
	c.rules = make(map[int64]*domain.BookingRules, len(s.rules))
	for id, r := range s.rules {
		cp := *r
		c.rules[id] = &cp
	}
	c.abuseRules = make(map[int64]*domain.AbuseRule, len(s.abuseRules))
	for id, r := range s.abuseRules {
		cp := *r
		c.abuseRules[id] = &cp
	}
	return &c
}

// Store хранилище в памяти: реализует все репозитории сервиса и менеджер транзакций.
// Транзакции выполняются строго по одной; при ошибке данные откатываются к снимку
type Store struct {
	// txMu эксклюзивно держит активная транзакция; чтения вне транзакции берут RLock,
	// поэтому видят только зафиксированные данные
	txMu sync.RWMutex
	mu   sync.RWMutex
	st   *state
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{st: newState()}
}

// Do выполняет fn в транзакции
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции. Транзакции хранилища всегда сериализуемы
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// Savepoint выполняет fn внутри транзакции; при ошибке откатываются только изменения fn.
// Вне транзакции fn выполняется как есть
func (s *Store) Savepoint(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, memTx{})); err != nil {
		s.restore(snapshot)
		return err
	}

	return nil
}

func (s *Store) restore(snapshot *state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = snapshot
}

// read выполняет fn под блокировкой чтения. Вне транзакции ждет завершения активной транзакции
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if !dbmetrics.IsInTransaction(ctx) {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write выполняет fn под блокировкой записи. Вне транзакции запись атомарна сама по себе
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if !dbmetrics.IsInTransaction(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// Cancellations возвращает репозиторий отмен и правил злоупотреблений
func (s *Store) Cancellations() *CancellationRepository {
	return &CancellationRepository{s: s}
}

// Schedules возвращает репозиторий рабочих графиков
func (s *Store) Schedules() *ScheduleRepository {
	return &ScheduleRepository{s: s}
}

// Staff возвращает репозиторий сотрудников и услуг точек
func (s *Store) Staff() *StaffRepository {
	return &StaffRepository{s: s}
}

// Rules возвращает репозиторий правил бронирования
func (s *Store) Rules() *RulesRepository {
	return &RulesRepository{s: s}
}

// memTx метка транзакции хранилища в контексте
type memTx struct{}

func (memTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (memTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (memTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (memTx) Commit() error {
	return nil
}

func (memTx) Rollback() error {
	return nil
}
