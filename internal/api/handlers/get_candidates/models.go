package get_candidates

import (
	"time"

	"github.com/m04kA/PetCare-SchedulingService/internal/service/selector"
)

// CandidatesResponse HTTP response model
type CandidatesResponse struct {
	Date       string      `json:"date"`
	LocationID int64       `json:"locationId"`
	ServiceID  int64       `json:"serviceId"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate сотрудник со свободными слотами, в порядке предпочтения
type Candidate struct {
	EmployeeID   int64    `json:"employeeId"`
	Rating       float64  `json:"rating"`
	BookedHours  float64  `json:"bookedHours"`
	BookingCount int      `json:"bookingCount"`
	Slots        []string `json:"slots"` // время начала слотов, ISO 8601
}

// FromCandidates конвертирует кандидатов селектора в HTTP response
func FromCandidates(date string, locationID, serviceID int64, list []selector.Candidate) *CandidatesResponse {
	resp := &CandidatesResponse{
		Date:       date,
		LocationID: locationID,
		ServiceID:  serviceID,
		Candidates: make([]Candidate, 0, len(list)),
	}

	for _, c := range list {
		item := Candidate{
			EmployeeID: c.Employee.ID,
			Rating:     c.Rating,
			Slots:      make([]string, 0, len(c.Slots)),
		}
		if c.Workload != nil {
			item.BookedHours = c.Workload.BookedHours
			item.BookingCount = c.Workload.BookingCount
		}
		for _, s := range c.Slots {
			item.Slots = append(item.Slots, s.Start.Format(time.RFC3339))
		}
		resp.Candidates = append(resp.Candidates, item)
	}

	return resp
}
