package moderate_cancellation

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// ModerationRequest HTTP request model
type ModerationRequest struct {
	IsAbuse     *bool  `json:"isAbuse"`
	AbuseRuleID *int64 `json:"abuseRuleId,omitempty"`
}

// CancellationResponse запись об отмене после модерации
type CancellationResponse struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"bookingId"`
	CustomerID  int64  `json:"customerId"`
	Initiator   string `json:"initiator"`
	Reason      string `json:"reason,omitempty"`
	IsAbuse     bool   `json:"isAbuse"`
	AbuseRuleID *int64 `json:"abuseRuleId,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// FromDomainRecord конвертирует запись об отмене в HTTP response
func FromDomainRecord(record *domain.CancellationRecord) *CancellationResponse {
	return &CancellationResponse{
		ID:          record.ID,
		BookingID:   record.BookingID,
		CustomerID:  record.CustomerID,
		Initiator:   string(record.Initiator),
		Reason:      record.Reason,
		IsAbuse:     record.IsAbuse,
		AbuseRuleID: record.AbuseRuleID,
		CreatedAt:   record.CreatedAt.Format(time.RFC3339),
	}
}
