package models

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
)

// Request модели

// CreateBookingRequest запрос на создание бронирования.
// Время передается в формате RFC 3339
type CreateBookingRequest struct {
	CustomerID int64     `json:"customerId"`
	PetID      int64     `json:"petId"`
	EmployeeID int64     `json:"employeeId"`
	LocationID int64     `json:"locationId"`
	ServiceID  int64     `json:"serviceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Price      float64   `json:"price"`
	Notes      *string   `json:"notes,omitempty"`
}

// ToCreateRequest конвертирует DTO в запрос движка
func (r *CreateBookingRequest) ToCreateRequest() bookings.CreateRequest {
	return bookings.CreateRequest{
		CustomerID: r.CustomerID,
		PetID:      r.PetID,
		EmployeeID: r.EmployeeID,
		LocationID: r.LocationID,
		ServiceID:  r.ServiceID,
		Start:      r.StartTime,
		End:        r.EndTime,
		Price:      r.Price,
		Notes:      r.Notes,
	}
}

// AutoAssignBookingRequest запрос на бронирование с автоматическим выбором сотрудника
type AutoAssignBookingRequest struct {
	CustomerID int64     `json:"customerId"`
	PetID      int64     `json:"petId"`
	LocationID int64     `json:"locationId"`
	ServiceID  int64     `json:"serviceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Price      float64   `json:"price"`
	Notes      *string   `json:"notes,omitempty"`
}

// UpdateBookingRequest частичное изменение бронирования
type UpdateBookingRequest struct {
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	EmployeeID *int64     `json:"employeeId,omitempty"`
	ServiceID  *int64     `json:"serviceId,omitempty"`
	Price      *float64   `json:"price,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// ToUpdateRequest конвертирует DTO в запрос движка
func (r *UpdateBookingRequest) ToUpdateRequest() bookings.UpdateRequest {
	return bookings.UpdateRequest{
		Start:      r.StartTime,
		End:        r.EndTime,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		Price:      r.Price,
		Notes:      r.Notes,
	}
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CompleteBookingRequest запрос на завершение бронирования
type CompleteBookingRequest struct {
	Outcome string `json:"outcome"` // completed, no_show, no_show_by_client, no_show_by_provider
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	Code       string  `json:"code"`
	CustomerID int64   `json:"customerId"`
	PetID      int64   `json:"petId"`
	EmployeeID int64   `json:"employeeId"`
	LocationID int64   `json:"locationId"`
	ServiceID  int64   `json:"serviceId"`
	Status     string  `json:"status"`
	StartTime  string  `json:"startTime"` // ISO 8601
	EndTime    string  `json:"endTime"`   // ISO 8601
	Price      float64 `json:"price"`
	Notes      *string `json:"notes,omitempty"`

	CompletedBy *int64  `json:"completedBy,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`

	CancelledBy        *int64  `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		Code:               b.Code,
		CustomerID:         b.CustomerID,
		PetID:              b.PetID,
		EmployeeID:         b.EmployeeID,
		LocationID:         b.LocationID,
		ServiceID:          b.ServiceID,
		Status:             string(b.Status),
		StartTime:          b.StartTime.UTC().Format(time.RFC3339),
		EndTime:            b.EndTime.UTC().Format(time.RFC3339),
		Price:              b.Price,
		Notes:              b.Notes,
		CompletedBy:        b.CompletedBy,
		CompletedAt:        formatTime(b.CompletedAt),
		CancelledBy:        b.CancelledBy,
		CancelledAt:        formatTime(b.CancelledAt),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(list []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(list)),
	}

	for _, booking := range list {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	return domain.ParseBookingStatus(status)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
