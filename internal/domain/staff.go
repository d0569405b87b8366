package domain

// Employee is a staff member who can be booked at a location
type Employee struct {
	ID            int64
	LocationID    int64
	IsActive      bool
	Rating        float64
	MaxDailyHours float64
	// ServiceIDs lists the services the employee is assigned to; empty means no restriction
	ServiceIDs []int64
}

// Qualifies reports whether the employee may perform the service
func (e *Employee) Qualifies(serviceID int64) bool {
	if len(e.ServiceIDs) == 0 {
		return true
	}
	for _, id := range e.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// DailyCapHours returns the configured daily cap or the default one
func (e *Employee) DailyCapHours() float64 {
	if e.MaxDailyHours <= 0 {
		return DefaultMaxDailyHours
	}
	return e.MaxDailyHours
}

// EffectiveRating returns the rating or the default one for unrated employees
func (e *Employee) EffectiveRating() float64 {
	if e.Rating <= 0 {
		return DefaultEmployeeRating
	}
	return e.Rating
}

// LocationService is a service offered at a location
type LocationService struct {
	LocationID       int64
	ServiceID        int64
	DurationMinutes  int
	TechBreakMinutes int
	Price            float64
	IsActive         bool
}

// SlotDurationMinutes returns the service duration padded with the technical break
func (s *LocationService) SlotDurationMinutes() int {
	duration := s.DurationMinutes
	if duration <= 0 {
		duration = DefaultServiceDurationMinutes
	}
	if s.TechBreakMinutes > 0 {
		duration += s.TechBreakMinutes
	}
	return duration
}
