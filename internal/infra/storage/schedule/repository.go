package schedule

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
	"github.com/m04kA/PetCare-SchedulingService/pkg/types"
)

// Repository читает расписания сотрудников и часы работы точек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWorkWindow возвращает рабочее окно сотрудника в точке на день недели
// Выходной (is_working = false) считается отсутствием окна
func (r *Repository) GetWorkWindow(ctx context.Context, employeeID, locationID int64, weekday time.Weekday) (*domain.WorkWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"start_time",
		"end_time",
		"break_start",
		"break_end",
	).
		From("employee_schedules").
		Where(squirrel.Eq{
			"employee_id": employeeID,
			"location_id": locationID,
			"weekday":     int(weekday),
			"is_working":  true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkWindow - build select query: %v", ErrBuildQuery, err)
	}

	var (
		window               domain.WorkWindow
		breakStart, breakEnd types.TimeString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&window.Start,
		&window.End,
		&breakStart,
		&breakEnd,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetWorkWindow - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	window.EmployeeID = employeeID
	window.LocationID = locationID
	window.Weekday = weekday
	if !breakStart.IsZero() && !breakEnd.IsZero() {
		window.BreakStart = &breakStart
		window.BreakEnd = &breakEnd
	}

	return &window, nil
}

// GetLocationHours возвращает часы работы точки на день недели
func (r *Repository) GetLocationHours(ctx context.Context, locationID int64, weekday time.Weekday) (*domain.LocationHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"is_closed",
		"open_time",
		"close_time",
	).
		From("location_hours").
		Where(squirrel.Eq{
			"location_id": locationID,
			"weekday":     int(weekday),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocationHours - build select query: %v", ErrBuildQuery, err)
	}

	var (
		hours               domain.LocationHours
		openTime, closeTime types.TimeString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.IsClosed,
		&openTime,
		&closeTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: GetLocationHours - scan: %v", ErrScanRow, pgerr.Classify(err), err)
	}

	hours.LocationID = locationID
	hours.Weekday = weekday
	if !openTime.IsZero() && !closeTime.IsZero() {
		hours.Open = &openTime
		hours.Close = &closeTime
	}

	return &hours, nil
}
