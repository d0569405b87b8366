package domain

import "time"

// RecipientKind says who receives a notification
type RecipientKind string

const (
	RecipientCustomer RecipientKind = "customer"
	RecipientEmployee RecipientKind = "employee"
)

// Notification template keys
const (
	TemplateBookingCreated             = "booking_created"
	TemplateBookingConfirmed           = "booking_confirmed"
	TemplateBookingRescheduled         = "booking_rescheduled"
	TemplateBookingCancelledByClient   = "booking_cancelled_by_client"
	TemplateBookingCancelledByProvider = "booking_cancelled_by_provider"
	TemplateBookingCompleted           = "booking_completed"
	TemplateBookingAutoCompleted       = "booking_auto_completed"
)

// Recipient of a notification
type Recipient struct {
	Kind RecipientKind
	ID   int64
}

// Notification is a message produced by a committed booking operation
type Notification struct {
	Recipient   Recipient
	TemplateKey string
	Data        map[string]interface{}
	OccurredAt  time.Time
}

// BookingNotification builds a notification carrying the booking summary
func BookingNotification(b *Booking, to Recipient, template string, at time.Time) Notification {
	return Notification{
		Recipient:   to,
		TemplateKey: template,
		OccurredAt:  at,
		Data: map[string]interface{}{
			"booking_id":  b.ID,
			"code":        b.Code,
			"status":      string(b.Status),
			"customer_id": b.CustomerID,
			"pet_id":      b.PetID,
			"employee_id": b.EmployeeID,
			"location_id": b.LocationID,
			"service_id":  b.ServiceID,
			"start_time":  b.StartTime.Format(time.RFC3339),
			"end_time":    b.EndTime.Format(time.RFC3339),
		},
	}
}
