package domain

import "time"

// BookingRules represents the temporal booking rules of a location
// Supports hierarchical configuration:
// 1. Service at specific location (location_id, service_id)
// 2. Location-wide (location_id, NULL)
// 3. Service-wide (NULL, service_id)
// 4. Global (NULL, NULL)
type BookingRules struct {
	ID                   int64
	LocationID           *int64 // NULL = rules for all locations
	ServiceID            *int64 // NULL = rules for all services
	MinBookingLeadHours  int
	MaxBookingDays       int
	MinCancellationHours int
	RequireConfirmation  bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DefaultBookingRules returns the built-in rules used when nothing is configured
func DefaultBookingRules() *BookingRules {
	return &BookingRules{
		MinBookingLeadHours:  DefaultMinBookingLeadHours,
		MaxBookingDays:       DefaultMaxBookingDays,
		MinCancellationHours: DefaultMinCancellationHours,
	}
}

// IsGlobal returns true if the rules are not bound to a location or service
func (r *BookingRules) IsGlobal() bool {
	return r.LocationID == nil && r.ServiceID == nil
}

// IsLocationSpecific returns true if the rules apply to all services of one location
func (r *BookingRules) IsLocationSpecific() bool {
	return r.LocationID != nil && r.ServiceID == nil
}

// IsServiceSpecific returns true if the rules apply to one service at every location
func (r *BookingRules) IsServiceSpecific() bool {
	return r.LocationID == nil && r.ServiceID != nil
}

// IsServiceAtLocation returns true if the rules apply to one service at one location
func (r *BookingRules) IsServiceAtLocation() bool {
	return r.LocationID != nil && r.ServiceID != nil
}

// MinLead returns the minimum gap between now and a booking start
func (r *BookingRules) MinLead() time.Duration {
	return time.Duration(r.MinBookingLeadHours) * time.Hour
}

// MaxAdvance returns how far ahead a booking may start; 0 means unlimited
func (r *BookingRules) MaxAdvance() time.Duration {
	return time.Duration(r.MaxBookingDays) * 24 * time.Hour
}

// MinCancellationNotice returns the minimum gap between a client cancellation and the start
func (r *BookingRules) MinCancellationNotice() time.Duration {
	return time.Duration(r.MinCancellationHours) * time.Hour
}

// InitialStatus returns the status of a freshly created booking
func (r *BookingRules) InitialStatus() BookingStatus {
	if r.RequireConfirmation {
		return StatusPendingConfirmation
	}
	return StatusActive
}
