package memory

import "github.com/m04kA/PetCare-SchedulingService/internal/domain"

// AddEmployee добавляет или заменяет сотрудника
func (s *Store) AddEmployee(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.employees[e.ID] = &e
}

// AddWorkWindow добавляет или заменяет рабочее окно сотрудника
func (s *Store) AddWorkWindow(w domain.WorkWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.workWindows[windowKey{employeeID: w.EmployeeID, locationID: w.LocationID, weekday: w.Weekday}] = &w
}

// AddLocationHours добавляет или заменяет часы работы точки
func (s *Store) AddLocationHours(h domain.LocationHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.locationHours[hoursKey{locationID: h.LocationID, weekday: h.Weekday}] = &h
}

// AddLocationService добавляет или заменяет услугу точки
func (s *Store) AddLocationService(svc domain.LocationService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.services[serviceKey{locationID: svc.LocationID, serviceID: svc.ServiceID}] = &svc
}

// AddAbuseRule добавляет правило злоупотреблений; нулевой ID назначается автоматически
func (s *Store) AddAbuseRule(rule domain.AbuseRule) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID == 0 {
		s.st.nextAbuseRuleID++
		rule.ID = s.st.nextAbuseRuleID
	} else if rule.ID > s.st.nextAbuseRuleID {
		s.st.nextAbuseRuleID = rule.ID
	}
	s.st.abuseRules[rule.ID] = &rule
	return rule.ID
}

// AddBookingRules добавляет правила бронирования и возвращает их ID
func (s *Store) AddBookingRules(rules domain.BookingRules) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextRulesID++
	rules.ID = s.st.nextRulesID
	s.st.rules[rules.ID] = &rules
	return rules.ID
}

// AddBooking кладет бронирование как есть, без проверок, и возвращает его ID
func (s *Store) AddBooking(b domain.Booking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextBookingID++
	b.ID = s.st.nextBookingID
	s.st.bookings[b.ID] = &b
	return b.ID
}

// AddCancellation кладет запись об отмене как есть и возвращает ее ID
func (s *Store) AddCancellation(rec domain.CancellationRecord) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nextCancellationID++
	rec.ID = s.st.nextCancellationID
	s.st.cancellations[rec.ID] = &rec
	return rec.ID
}
