package cancellation

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

// Repository хранит записи об отменах и правила определения злоупотреблений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отмен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись об отмене. Вызывается в той же транзакции, что и смена статуса
func (r *Repository) Create(ctx context.Context, record *domain.CancellationRecord) (*domain.CancellationRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_cancellations").
		Columns(
			"booking_id",
			"customer_id",
			"cancelled_by",
			"initiator",
			"reason",
			"is_abuse",
			"abuse_rule_id",
			"created_at",
		).
		Values(
			record.BookingID,
			record.CustomerID,
			record.CancelledBy,
			string(record.Initiator),
			record.Reason,
			record.IsAbuse,
			record.AbuseRuleID,
			record.CreatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&record.ID); err != nil {
		return nil, fmt.Errorf("%w: %w: Create - execute insert: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	return record, nil
}

// CountAbuse считает записи клиента, уже помеченные как злоупотребление, начиная с since
func (r *Repository) CountAbuse(ctx context.Context, customerID int64, since time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("booking_cancellations").
		Where(squirrel.Eq{"customer_id": customerID, "is_abuse": true}).
		Where(squirrel.GtOrEq{"created_at": since.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountAbuse - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w: CountAbuse - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return count, nil
}

// GetByBookingID получает запись об отмене бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.CancellationRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"customer_id",
		"cancelled_by",
		"initiator",
		"reason",
		"is_abuse",
		"abuse_rule_id",
		"created_at",
	).
		From("booking_cancellations").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		record      domain.CancellationRecord
		initiator   string
		cancelledBy sql.NullInt64
		ruleID      sql.NullInt64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&record.ID,
		&record.BookingID,
		&record.CustomerID,
		&cancelledBy,
		&initiator,
		&record.Reason,
		&record.IsAbuse,
		&ruleID,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetByBookingID - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	record.Initiator = domain.BookingStatus(initiator)
	if cancelledBy.Valid {
		record.CancelledBy = &cancelledBy.Int64
	}
	if ruleID.Valid {
		record.AbuseRuleID = &ruleID.Int64
	}

	return &record, nil
}

// SetAbuseFlag явная модерация: меняет флаг злоупотребления у существующей записи
func (r *Repository) SetAbuseFlag(ctx context.Context, recordID int64, isAbuse bool, ruleID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_cancellations").
		Set("is_abuse", isAbuse).
		Set("abuse_rule_id", ruleID).
		Where(squirrel.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAbuseFlag - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w: SetAbuseFlag - execute update: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAbuseFlag - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// ListActiveRules возвращает активные правила злоупотреблений
func (r *Repository) ListActiveRules(ctx context.Context) ([]*domain.AbuseRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"period",
		"max_cancellations",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("abuse_rules").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: ListActiveRules - execute query: %v", ErrExecQuery, pgerr.Classify(err), err)
	}
	defer rows.Close()

	rules := make([]*domain.AbuseRule, 0)
	for rows.Next() {
		var (
			rule   domain.AbuseRule
			period string
		)
		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Description,
			&period,
			&rule.MaxCancellations,
			&rule.IsActive,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListActiveRules - scan row: %v", ErrScanRow, err)
		}
		rule.Period = domain.AbusePeriod(period)
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: ListActiveRules - rows error: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return rules, nil
}
