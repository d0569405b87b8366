package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// ScheduleRepository рабочие графики и часы работы точек в памяти
type ScheduleRepository struct {
	s *Store
}

// GetWorkWindow получает рабочее окно сотрудника в точке на день недели
func (r *ScheduleRepository) GetWorkWindow(ctx context.Context, employeeID, locationID int64, weekday time.Weekday) (*domain.WorkWindow, error) {
	var found *domain.WorkWindow
	err := r.s.read(ctx, func(st *state) error {
		w, ok := st.workWindows[windowKey{employeeID: employeeID, locationID: locationID, weekday: weekday}]
		if !ok {
			return domain.ErrWorkWindowNotFound
		}
		cp := *w
		found = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// GetLocationHours получает часы работы точки на день недели
func (r *ScheduleRepository) GetLocationHours(ctx context.Context, locationID int64, weekday time.Weekday) (*domain.LocationHours, error) {
	var found *domain.LocationHours
	err := r.s.read(ctx, func(st *state) error {
		h, ok := st.locationHours[hoursKey{locationID: locationID, weekday: weekday}]
		if !ok {
			return domain.ErrLocationHoursNotFound
		}
		cp := *h
		found = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// StaffRepository сотрудники и каталог услуг точек в памяти
type StaffRepository struct {
	s *Store
}

// ListForLocation возвращает активных сотрудников точки по возрастанию ID
func (r *StaffRepository) ListForLocation(ctx context.Context, locationID int64) ([]*domain.Employee, error) {
	employees := make([]*domain.Employee, 0)
	err := r.s.read(ctx, func(st *state) error {
		for _, e := range st.employees {
			if e.LocationID == locationID && e.IsActive {
				cp := *e
				employees = append(employees, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

// GetEmployee получает сотрудника по ID
func (r *StaffRepository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	var found *domain.Employee
	err := r.s.read(ctx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return domain.ErrEmployeeNotFound
		}
		cp := *e
		found = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// GetLocationService получает услугу из каталога точки
func (r *StaffRepository) GetLocationService(ctx context.Context, locationID, serviceID int64) (*domain.LocationService, error) {
	var found *domain.LocationService
	err := r.s.read(ctx, func(st *state) error {
		svc, ok := st.services[serviceKey{locationID: locationID, serviceID: serviceID}]
		if !ok {
			return domain.ErrLocationServiceNotFound
		}
		cp := *svc
		found = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
