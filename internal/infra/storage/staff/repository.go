package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/pgerr"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/PetCare-SchedulingService/pkg/psqlbuilder"
)

// Repository справочник сотрудников и услуг точек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func employeeSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"e.id",
		"e.location_id",
		"e.is_active",
		"e.rating",
		"e.max_daily_hours",
		"COALESCE(array_agg(es.service_id) FILTER (WHERE es.service_id IS NOT NULL), '{}')",
	).
		From("employees e").
		LeftJoin("employee_services es ON es.employee_id = e.id").
		GroupBy("e.id")
}

// ListForLocation возвращает активных сотрудников точки вместе с назначенными услугами
func (r *Repository) ListForLocation(ctx context.Context, locationID int64) ([]*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := employeeSelect().
		Where(squirrel.Eq{"e.location_id": locationID, "e.is_active": true}).
		OrderBy("e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: ListForLocation - execute query: %v", ErrExecQuery, pgerr.Classify(err), err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListForLocation - scan row: %v", ErrScanRow, err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: ListForLocation - rows error: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return employees, nil
}

// GetEmployee получает сотрудника по ID
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := employeeSelect().
		Where(squirrel.Eq{"e.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - build select query: %v", ErrBuildQuery, err)
	}

	employee, err := scanEmployee(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetEmployee - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return employee, nil
}

// GetLocationService возвращает параметры услуги в точке (длительность, технический перерыв, цена)
func (r *Repository) GetLocationService(ctx context.Context, locationID, serviceID int64) (*domain.LocationService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"location_id",
		"service_id",
		"duration_minutes",
		"tech_break_minutes",
		"price",
		"is_active",
	).
		From("location_services").
		Where(squirrel.Eq{"location_id": locationID, "service_id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocationService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.LocationService
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.LocationID,
		&service.ServiceID,
		&service.DurationMinutes,
		&service.TechBreakMinutes,
		&service.Price,
		&service.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetLocationService - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	return &service, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var (
		employee   domain.Employee
		rating     sql.NullFloat64
		maxHours   sql.NullFloat64
		serviceIDs pq.Int64Array
	)

	if err := row.Scan(
		&employee.ID,
		&employee.LocationID,
		&employee.IsActive,
		&rating,
		&maxHours,
		&serviceIDs,
	); err != nil {
		return nil, err
	}

	employee.Rating = rating.Float64
	employee.MaxDailyHours = maxHours.Float64
	employee.ServiceIDs = []int64(serviceIDs)

	return &employee, nil
}
