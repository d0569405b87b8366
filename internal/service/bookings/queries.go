package bookings

import (
	"context"
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// Get получает бронирование по ID
func (e *Engine) Get(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, e.fail("Get", err)
	}
	return booking, nil
}

// ListForCustomer возвращает историю бронирований клиента, опционально по статусу
func (e *Engine) ListForCustomer(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	bookings, err := e.bookings.ListByCustomer(ctx, domain.CustomerBookingsFilter{CustomerID: customerID, Status: status})
	if err != nil {
		return nil, e.fail("ListForCustomer", err)
	}
	return bookings, nil
}

// ListForEmployeeDay возвращает бронирования сотрудника, занимающие время в указанный день
func (e *Engine) ListForEmployeeDay(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Booking, error) {
	dayStart := e.availability.BeginningOfDay(date)
	bookings, err := e.bookings.ListForEmployeeBetween(ctx, employeeID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, e.fail("ListForEmployeeDay", err)
	}
	return bookings, nil
}
