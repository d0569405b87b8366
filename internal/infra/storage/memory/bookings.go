package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/pkg/dbmetrics"
)

// BookingRepository бронирования в памяти
type BookingRepository struct {
	s *Store
}

// Insert сохраняет новое бронирование. Как и ограничение EXCLUDE в БД,
// отклоняет пересечение с блокирующими бронированиями сотрудника
func (r *BookingRepository) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	var created *domain.Booking
	err := r.s.write(ctx, func(st *state) error {
		for _, b := range st.bookings {
			if b.Code == booking.Code {
				return fmt.Errorf("%w: booking code %s already exists", domain.ErrStore, booking.Code)
			}
		}
		if booking.Status.BlocksSlot() && overlapsAny(st, booking.EmployeeID, booking.Interval(), nil) {
			return fmt.Errorf("%w: Insert - booking overlaps employee %d schedule", domain.ErrConflict, booking.EmployeeID)
		}

		st.nextBookingID++
		cp := *booking
		cp.ID = st.nextBookingID
		cp.StartTime = cp.StartTime.UTC()
		cp.EndTime = cp.EndTime.UTC()
		st.bookings[cp.ID] = &cp

		out := cp
		created = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var found *domain.Booking
	err := r.s.read(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return domain.ErrBookingNotFound
		}
		cp := *b
		found = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// LockByID получает бронирование внутри транзакции.
// Транзакции хранилища выполняются по одной, поэтому отдельная блокировка строки не нужна
func (r *BookingRepository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}
	return r.GetByID(ctx, id)
}

// LockEmployee проверяет, что вызов сделан внутри транзакции
func (r *BookingRepository) LockEmployee(ctx context.Context, employeeID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	return nil
}

// FindOverlapping возвращает блокирующие бронирования сотрудника, пересекающиеся с интервалом
func (r *BookingRepository) FindOverlapping(ctx context.Context, employeeID int64, interval domain.Interval, excludeID *int64) ([]*domain.Booking, error) {
	var result []*domain.Booking
	err := r.s.read(ctx, func(st *state) error {
		result = collect(st, func(b *domain.Booking) bool {
			if b.EmployeeID != employeeID || !b.BlocksSlot() {
				return false
			}
			if excludeID != nil && b.ID == *excludeID {
				return false
			}
			return b.Interval().Overlaps(interval)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByStart(result)
	return result, nil
}

// ListForEmployeeBetween возвращает блокирующие бронирования сотрудника, пересекающиеся с [from, to)
func (r *BookingRepository) ListForEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error) {
	return r.FindOverlapping(ctx, employeeID, domain.Interval{Start: from, End: to}, nil)
}

// UpdateStatus меняет статус и метаданные бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, change domain.StatusChange) error {
	return r.s.write(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return domain.ErrBookingNotFound
		}
		change.At = change.At.UTC()
		change.ApplyTo(b)
		return nil
	})
}

// Update сохраняет изменяемые поля бронирования
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	return r.s.write(ctx, func(st *state) error {
		current, ok := st.bookings[booking.ID]
		if !ok {
			return domain.ErrBookingNotFound
		}
		excludeID := booking.ID
		if current.BlocksSlot() && overlapsAny(st, booking.EmployeeID, booking.Interval(), &excludeID) {
			return fmt.Errorf("%w: Update - booking overlaps employee %d schedule", domain.ErrConflict, booking.EmployeeID)
		}

		current.EmployeeID = booking.EmployeeID
		current.ServiceID = booking.ServiceID
		current.StartTime = booking.StartTime.UTC()
		current.EndTime = booking.EndTime.UTC()
		current.Price = booking.Price
		current.Notes = booking.Notes
		current.UpdatedAt = booking.UpdatedAt.UTC()
		return nil
	})
}

// CodeExists проверяет, занят ли код бронирования
func (r *BookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	exists := false
	err := r.s.read(ctx, func(st *state) error {
		for _, b := range st.bookings {
			if b.Code == code {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

// ListStale возвращает незавершенные бронирования, начавшиеся в [from, to)
func (r *BookingRepository) ListStale(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	var result []*domain.Booking
	err := r.s.read(ctx, func(st *state) error {
		result = collect(st, func(b *domain.Booking) bool {
			return b.BlocksSlot() && !b.StartTime.Before(from) && b.StartTime.Before(to)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByStart(result)
	return result, nil
}

// ListByCustomer возвращает историю бронирований клиента, новые первыми
func (r *BookingRepository) ListByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	err := r.s.read(ctx, func(st *state) error {
		result = collect(st, func(b *domain.Booking) bool {
			if b.CustomerID != filter.CustomerID {
				return false
			}
			return filter.Status == nil || b.Status == *filter.Status
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

// ListCancelled возвращает отмененные бронирования с CancelledAt в [From, To), последние отмены первыми
func (r *BookingRepository) ListCancelled(ctx context.Context, filter domain.CancelledBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	err := r.s.read(ctx, func(st *state) error {
		result = collect(st, func(b *domain.Booking) bool {
			if b.Status != domain.StatusCancelledByClient && b.Status != domain.StatusCancelledByProvider {
				return false
			}
			if b.CancelledAt == nil || b.CancelledAt.Before(filter.From) || !b.CancelledAt.Before(filter.To) {
				return false
			}
			return filter.LocationID == nil || b.LocationID == *filter.LocationID
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CancelledAt.Equal(*result[j].CancelledAt) {
			return result[i].CancelledAt.After(*result[j].CancelledAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func overlapsAny(st *state, employeeID int64, interval domain.Interval, excludeID *int64) bool {
	for _, b := range st.bookings {
		if b.EmployeeID != employeeID || !b.BlocksSlot() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Interval().Overlaps(interval) {
			return true
		}
	}
	return false
}

func collect(st *state, match func(b *domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range st.bookings {
		if match(b) {
			cp := *b
			result = append(result, &cp)
		}
	}
	return result
}

func sortByStart(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].StartTime.Equal(bookings[j].StartTime) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].StartTime.Before(bookings[j].StartTime)
	})
}
