package get_cancellation_report

import (
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings/models"
	getCancellationReport "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_cancellation_report"
)

// ReportResponse HTTP response model
type ReportResponse struct {
	From          string                    `json:"from"`
	To            string                    `json:"to"`
	Total         int                       `json:"totalCancellations"`
	ByClient      int                       `json:"clientCancellations"`
	ByProvider    int                       `json:"providerCancellations"`
	ByLocation    []LocationCount           `json:"locationStats"`
	ByService     []ServiceCount            `json:"serviceStats"`
	Cancellations []*models.BookingResponse `json:"cancellations"`
}

// LocationCount количество отмен по точке
type LocationCount struct {
	LocationID int64 `json:"locationId"`
	Count      int   `json:"count"`
}

// ServiceCount количество отмен по услуге
type ServiceCount struct {
	ServiceID int64 `json:"serviceId"`
	Count     int   `json:"count"`
}

// FromUseCaseResponse конвертирует отчет в HTTP response; to - последний включенный день
func FromUseCaseResponse(resp *getCancellationReport.Response, from, to string) *ReportResponse {
	out := &ReportResponse{
		From:          from,
		To:            to,
		Total:         resp.Total,
		ByClient:      resp.ByClient,
		ByProvider:    resp.ByProvider,
		ByLocation:    make([]LocationCount, 0, len(resp.ByLocation)),
		ByService:     make([]ServiceCount, 0, len(resp.ByService)),
		Cancellations: make([]*models.BookingResponse, 0, len(resp.Cancellations)),
	}
	for _, g := range resp.ByLocation {
		out.ByLocation = append(out.ByLocation, LocationCount{LocationID: g.ID, Count: g.Count})
	}
	for _, g := range resp.ByService {
		out.ByService = append(out.ByService, ServiceCount{ServiceID: g.ID, Count: g.Count})
	}
	for _, b := range resp.Cancellations {
		out.Cancellations = append(out.Cancellations, models.FromDomainBooking(b))
	}
	return out
}
