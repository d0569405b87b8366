package domain

import (
	"fmt"
	"time"
)

// AbusePeriod is the rolling window of an abuse rule
type AbusePeriod string

const (
	PeriodDay   AbusePeriod = "day"
	PeriodWeek  AbusePeriod = "week"
	PeriodMonth AbusePeriod = "month"
	PeriodYear  AbusePeriod = "year"
)

// Window returns the rolling window length; month and year are fixed 30 and 365 days
func (p AbusePeriod) Window() (time.Duration, error) {
	const day = 24 * time.Hour
	switch p {
	case PeriodDay:
		return day, nil
	case PeriodWeek:
		return 7 * day, nil
	case PeriodMonth:
		return 30 * day, nil
	case PeriodYear:
		return 365 * day, nil
	default:
		return 0, fmt.Errorf("%w: unknown abuse period %q", ErrFatalConfig, string(p))
	}
}

// AbuseRule flags a customer whose abusive cancellations within the window reach the threshold
type AbuseRule struct {
	ID               int64
	Name             string
	Description      string
	Period           AbusePeriod
	MaxCancellations int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AbuseVerdict is the outcome of an abuse evaluation
type AbuseVerdict struct {
	IsAbuse bool
	Rule    *AbuseRule
}

// RuleID returns the triggering rule id, nil when not abuse
func (v AbuseVerdict) RuleID() *int64 {
	if v.Rule == nil {
		return nil
	}
	id := v.Rule.ID
	return &id
}

// CancellationRecord is created exactly once when a booking gets cancelled
type CancellationRecord struct {
	ID          int64
	BookingID   int64
	CustomerID  int64
	CancelledBy *int64
	Initiator   BookingStatus // cancelled_by_client or cancelled_by_provider
	Reason      string
	IsAbuse     bool
	AbuseRuleID *int64
	CreatedAt   time.Time
}
