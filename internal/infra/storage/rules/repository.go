package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/pgerr"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PetCare-SchedulingService/pkg/psqlbuilder"
)

const table = "booking_rules"

var columns = []string{
	"id",
	"location_id",
	"service_id",
	"min_booking_lead_hours",
	"max_booking_days",
	"min_cancellation_hours",
	"require_confirmation",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил бронирования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новые правила бронирования
func (r *Repository) Create(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"location_id",
			"service_id",
			"min_booking_lead_hours",
			"max_booking_days",
			"min_cancellation_hours",
			"require_confirmation",
		).
		Values(
			rules.LocationID,
			rules.ServiceID,
			rules.MinBookingLeadHours,
			rules.MaxBookingDays,
			rules.MinCancellationHours,
			rules.RequireConfirmation,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: Create - execute insert: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

// GetByLocationAndService получает правила ровно для пары (locationID, serviceID)
// nil означает "для всех" (IS NULL в БД):
// 1. Если locationID и serviceID заданы - правила для конкретной услуги в конкретной точке
// 2. Если только locationID задан - правила для всех услуг точки
// 3. Если только serviceID задан - правила для услуги во всех точках
// 4. Если оба nil - глобальные правила
func (r *Repository) GetByLocationAndService(ctx context.Context, locationID, serviceID *int64) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	// Фильтрация по location_id (NULL или конкретное значение)
	if locationID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": *locationID})
	}

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLocationAndService - build select query: %v", ErrBuildQuery, err)
	}

	rules, err := scanRules(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetByLocationAndService - scan rules: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return rules, nil
}

// GetRulesWithHierarchy получает правила с учетом иерархии приоритетов
// Приоритет применения:
// 1. Правила для конкретной услуги в конкретной точке (locationID, serviceID)
// 2. Правила для всех услуг точки (locationID, NULL)
// 3. Правила для услуги во всех точках (NULL, serviceID)
// 4. Глобальные правила (NULL, NULL)
//
// Если правила не найдены ни на одном уровне, возвращает ErrRulesNotFound
func (r *Repository) GetRulesWithHierarchy(ctx context.Context, locationID, serviceID int64) (*domain.BookingRules, error) {
	levels := []struct {
		name       string
		locationID *int64
		serviceID  *int64
	}{
		{"location+service", &locationID, &serviceID},
		{"location only", &locationID, nil},
		{"service only", nil, &serviceID},
		{"global", nil, nil},
	}

	for i, level := range levels {
		rules, err := r.GetByLocationAndService(ctx, level.locationID, level.serviceID)
		if err == nil {
			return rules, nil
		}
		if !errors.Is(err, ErrRulesNotFound) {
			return nil, fmt.Errorf("%w: GetRulesWithHierarchy - level %d (%s): %w", ErrExecQuery, i+1, level.name, err)
		}
	}

	return nil, ErrRulesNotFound
}

// GetAllByLocation получает все правила, действующие для точки (глобальные, точки, услуг)
func (r *Repository) GetAllByLocation(ctx context.Context, locationID int64) ([]*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Or{
			squirrel.Eq{"location_id": locationID},
			squirrel.Eq{"location_id": nil},
		}).
		OrderBy("location_id ASC NULLS FIRST, service_id ASC NULLS FIRST"). // Глобальные правила первыми
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetAllByLocation - execute query: %v", ErrExecQuery, pgerr.Classify(err), err)
	}
	defer rows.Close()

	result := make([]*domain.BookingRules, 0)
	for rows.Next() {
		rules, err := scanRules(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByLocation - scan row: %v", ErrScanRow, err)
		}
		result = append(result, rules)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: GetAllByLocation - rows error: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return result, nil
}

// Update обновляет правила бронирования
func (r *Repository) Update(ctx context.Context, id int64, rules *domain.BookingRules) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("min_booking_lead_hours", rules.MinBookingLeadHours).
		Set("max_booking_days", rules.MaxBookingDays).
		Set("min_cancellation_hours", rules.MinCancellationHours).
		Set("require_confirmation", rules.RequireConfirmation).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: Update - execute update: %v", ErrExecQuery, pgerr.Classify(err), err)
	}

	rules.ID = id
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRules(row rowScanner) (*domain.BookingRules, error) {
	var (
		rules                domain.BookingRules
		locationID           sql.NullInt64
		serviceID            sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(
		&rules.ID,
		&locationID,
		&serviceID,
		&rules.MinBookingLeadHours,
		&rules.MaxBookingDays,
		&rules.MinCancellationHours,
		&rules.RequireConfirmation,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if locationID.Valid {
		rules.LocationID = &locationID.Int64
	}
	if serviceID.Valid {
		rules.ServiceID = &serviceID.Int64
	}
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return &rules, nil
}
