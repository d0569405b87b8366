package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/pgerr"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PetCare-SchedulingService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"code",
	"customer_id",
	"pet_id",
	"employee_id",
	"location_id",
	"service_id",
	"status",
	"start_time",
	"end_time",
	"price",
	"notes",
	"completed_by",
	"completed_at",
	"cancelled_by",
	"cancelled_at",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// blockingStatuses статусы, занимающие время сотрудника
func blockingStatuses() []string {
	statuses := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"code",
			"customer_id",
			"pet_id",
			"employee_id",
			"location_id",
			"service_id",
			"status",
			"start_time",
			"end_time",
			"price",
			"notes",
		).
		Values(
			booking.Code,
			booking.CustomerID,
			booking.PetID,
			booking.EmployeeID,
			booking.LocationID,
			booking.ServiceID,
			string(booking.Status),
			booking.StartTime.UTC(),
			booking.EndTime.UTC(),
			booking.Price,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: Insert - execute insert: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// LockByID получает бронирование по ID с блокировкой строки (FOR UPDATE)
// Требует активной транзакции в контексте
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetByID - scan booking: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return booking, nil
}

// employeeLockNamespace первый ключ advisory-блокировок бронирований, второй - ключ сотрудника.
// Отделяет блокировки сервиса от других пользователей advisory-блокировок в той же базе
const employeeLockNamespace int32 = 0x5043

// employeeLockKey сворачивает ID сотрудника в int4.
// Совпадение ключей у разных сотрудников только сериализует их бронирования
func employeeLockKey(employeeID int64) int32 {
	return int32(employeeID ^ (employeeID >> 32))
}

func lockEmployeeQuery(employeeID int64) (string, []interface{}, error) {
	return psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?, ?)", employeeLockNamespace, employeeLockKey(employeeID))).
		ToSql()
}

// LockEmployee берет эксклюзивную advisory-блокировку на бронирования сотрудника
// до конца текущей транзакции. Ключ блокировки - (employeeLockNamespace, ключ сотрудника)
func (r *Repository) LockEmployee(ctx context.Context, employeeID int64) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return ErrNotInTransaction
	}

	query, args, err := lockEmployeeQuery(employeeID)
	if err != nil {
		return fmt.Errorf("%w: LockEmployee - build query: %v", ErrBuildQuery, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w: LockEmployee - execute: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	return nil
}

// FindOverlapping возвращает бронирования сотрудника в статусах active/pending_confirmation,
// пересекающиеся с полуинтервалом [start, end). excludeID исключает собственную строку при переносе.
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) FindOverlapping(ctx context.Context, employeeID int64, interval domain.Interval, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"status": blockingStatuses()}).
		Where(squirrel.Lt{"start_time": interval.End.UTC()}).
		Where(squirrel.Gt{"end_time": interval.Start.UTC()}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "FindOverlapping", query, args)
}

// ListForEmployeeBetween возвращает бронирования сотрудника в статусах active/pending_confirmation,
// пересекающиеся с [from, to), отсортированные по времени начала
func (r *Repository) ListForEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error) {
	return r.FindOverlapping(ctx, employeeID, domain.Interval{Start: from, End: to}, nil)
}

// UpdateStatus меняет статус бронирования и проставляет метаданные завершения или отмены
func (r *Repository) UpdateStatus(ctx context.Context, id int64, change domain.StatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", string(change.Status)).
		Set("updated_at", change.At.UTC()).
		Where(squirrel.Eq{"id": id})

	switch {
	case change.IsCancellation():
		updateBuilder = updateBuilder.
			Set("cancelled_by", change.Actor.UserRef()).
			Set("cancelled_at", change.At.UTC()).
			Set("cancellation_reason", change.Reason)
	case change.IsCompletion():
		updateBuilder = updateBuilder.
			Set("completed_by", change.Actor.UserRef()).
			Set("completed_at", change.At.UTC())
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w: UpdateStatus - execute update: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Update сохраняет изменяемые поля бронирования (время, сотрудник, услуга, цена, заметки)
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("employee_id", booking.EmployeeID).
		Set("service_id", booking.ServiceID).
		Set("start_time", booking.StartTime.UTC()).
		Set("end_time", booking.EndTime.UTC()).
		Set("price", booking.Price).
		Set("notes", booking.Notes).
		Set("updated_at", booking.UpdatedAt.UTC()).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w: Update - execute update: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CodeExists проверяет, занят ли код бронирования
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"code": code}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CodeExists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: %w: CodeExists - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return exists, nil
}

// ListStale возвращает незавершенные бронирования, начавшиеся в [from, to)
// Используется sweeper'ом автозавершения
func (r *Repository) ListStale(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": blockingStatuses()}).
		Where(squirrel.GtOrEq{"start_time": from.UTC()}).
		Where(squirrel.Lt{"start_time": to.UTC()}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStale - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "ListStale", query, args)
}

// ListByCustomer получает историю бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) ListByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": filter.CustomerID}).
		OrderBy("start_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "ListByCustomer", query, args)
}

// ListCancelled получает отмененные бронирования с cancelled_at в [From, To), последние отмены первыми.
// Опционально фильтрует по точке
func (r *Repository) ListCancelled(ctx context.Context, filter domain.CancelledBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.CancelledStatuses))
	for i, s := range domain.CancelledStatuses {
		statuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.GtOrEq{"cancelled_at": filter.From.UTC()}).
		Where(squirrel.Lt{"cancelled_at": filter.To.UTC()}).
		OrderBy("cancelled_at DESC", "id DESC")

	if filter.LocationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListCancelled - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "ListCancelled", query, args)
}

func (r *Repository) queryBookings(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s - execute query: %v", ErrExecQuery, pgerr.Classify(err), op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: %s - rows error: %v", ErrScanRow, pgerr.Classify(err), op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking            domain.Booking
		status             string
		notes, reason      sql.NullString
		completedBy        sql.NullInt64
		cancelledBy        sql.NullInt64
		completedAt        sql.NullTime
		cancelledAt        sql.NullTime
		createdAt, updated sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.Code,
		&booking.CustomerID,
		&booking.PetID,
		&booking.EmployeeID,
		&booking.LocationID,
		&booking.ServiceID,
		&status,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Price,
		&notes,
		&completedBy,
		&completedAt,
		&cancelledBy,
		&cancelledAt,
		&reason,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.StartTime = booking.StartTime.UTC()
	booking.EndTime = booking.EndTime.UTC()
	if notes.Valid {
		booking.Notes = &notes.String
	}
	if reason.Valid {
		booking.CancellationReason = &reason.String
	}
	if completedBy.Valid {
		booking.CompletedBy = &completedBy.Int64
	}
	if completedAt.Valid {
		booking.CompletedAt = &completedAt.Time
	}
	if cancelledBy.Valid {
		booking.CancelledBy = &cancelledBy.Int64
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updated.Time

	return &booking, nil
}
