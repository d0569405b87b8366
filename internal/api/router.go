package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/middleware"
	"github.com/m04kA/PetCare-SchedulingService/pkg/metrics"
)

// Routes обработчики всех маршрутов /api/v1
type Routes struct {
	CreateBooking       http.HandlerFunc
	AutoAssignBooking   http.HandlerFunc
	GetBooking          http.HandlerFunc
	UpdateBooking       http.HandlerFunc
	CancelBooking       http.HandlerFunc
	CompleteBooking     http.HandlerFunc
	ConfirmBooking      http.HandlerFunc
	GetCustomerBookings http.HandlerFunc
	GetEmployeeBookings http.HandlerFunc
	GetAvailableSlots   http.HandlerFunc
	GetCandidates       http.HandlerFunc
	GetBookingRules     http.HandlerFunc
	UpdateBookingRules  http.HandlerFunc

	GetCancellationReport http.HandlerFunc
	ModerateCancellation  http.HandlerFunc
}

// NewRouter собирает роутер. m может быть nil, тогда метрики не подключаются
func NewRouter(routes Routes, m *metrics.Metrics, metricsPath string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if m != nil {
		r.Use(middleware.MetricsMiddleware(m, m.ServiceName()))
		r.Handle(metricsPath, m.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без заголовков идентичности)
	// ============================================================

	api.HandleFunc("/locations/{locationId}/employees/{employeeId}/available-slots",
		routes.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/locations/{locationId}/services/{serviceId}/candidates",
		routes.GetCandidates).Methods(http.MethodGet)
	api.HandleFunc("/locations/{locationId}/booking-rules",
		routes.GetBookingRules).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID, X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", routes.CreateBooking).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/auto-assign", routes.AutoAssignBooking).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", routes.GetBooking).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", routes.UpdateBooking).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", routes.CancelBooking).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/complete", routes.CompleteBooking).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/confirm", routes.ConfirmBooking).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancellation/abuse", routes.ModerateCancellation).Methods(http.MethodPatch)

	// --- Истории и расписания ---
	protected.HandleFunc("/customers/{customerId}/bookings", routes.GetCustomerBookings).Methods(http.MethodGet)
	protected.HandleFunc("/employees/{employeeId}/bookings", routes.GetEmployeeBookings).Methods(http.MethodGet)

	// --- Управление точкой (для сотрудников) ---
	protected.HandleFunc("/locations/{locationId}/booking-rules", routes.UpdateBookingRules).Methods(http.MethodPut)

	// --- Отчеты ---
	protected.HandleFunc("/reports/cancellations", routes.GetCancellationReport).Methods(http.MethodGet)

	return r
}
