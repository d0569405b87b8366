package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/api/handlers"
	autoAssignBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/auto_assign_booking"
	cancelBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_booking"
	getBookingRulesHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_booking_rules"
	getCancellationReportHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_cancellation_report"
	getCandidatesHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_candidates"
	getCustomerBookingsHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_customer_bookings"
	getEmployeeBookingsHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/get_employee_bookings"
	moderateCancellationHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/moderate_cancellation"
	updateBookingHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/update_booking"
	updateBookingRulesHandler "github.com/m04kA/PetCare-SchedulingService/internal/api/handlers/update_booking_rules"
	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/abuse"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/availability"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/bookings/models"
	rulesService "github.com/m04kA/PetCare-SchedulingService/internal/service/rules"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/selector"
	autoAssignBookingUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/auto_assign_booking"
	getAvailableSlotsUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_available_slots"
	getCancellationReportUC "github.com/m04kA/PetCare-SchedulingService/internal/usecase/get_cancellation_report"
	"github.com/m04kA/PetCare-SchedulingService/pkg/clock"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
	"github.com/m04kA/PetCare-SchedulingService/pkg/metrics"
	"github.com/m04kA/PetCare-SchedulingService/pkg/ptr"
	"github.com/m04kA/PetCare-SchedulingService/pkg/types"
)

// sunday 2025-03-09 12:00 UTC; bookings go to monday 2025-03-10
var (
	sunday = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newTestServer(t *testing.T, m *metrics.Metrics) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	for _, id := range []int64{1, 2} {
		store.AddEmployee(domain.Employee{ID: id, LocationID: 1, IsActive: true, Rating: float64(3 + id)})
		store.AddWorkWindow(domain.WorkWindow{
			EmployeeID: id,
			LocationID: 1,
			Weekday:    time.Monday,
			Start:      "09:00",
			End:        "17:00",
			BreakStart: ptr.Ptr(types.TimeString("13:00")),
			BreakEnd:   ptr.Ptr(types.TimeString("14:00")),
		})
	}
	store.AddLocationService(domain.LocationService{LocationID: 1, ServiceID: 1, DurationMinutes: 30, IsActive: true})

	clk := clock.NewFixed(sunday)
	log := logger.NewNop()

	calc := availability.NewCalculator(store.Bookings(), store.Schedules(), store.Staff(), time.UTC)
	cancellations := store.Cancellations()
	detector := abuse.NewDetector(cancellations, cancellations, cancellations, clk, log)
	rules := rulesService.NewService(store.Rules(), log)
	engine := bookings.NewEngine(store.Bookings(), calc, store.Staff(), rules, cancellations, detector,
		notifications.NewLogSink(log), store, clk, log)
	sel := selector.NewSelector(store.Staff(), calc, log)

	routes := Routes{
		CreateBooking:       createBookingHandler.NewHandler(engine, log).Handle,
		AutoAssignBooking:   autoAssignBookingHandler.NewHandler(autoAssignBookingUC.NewUseCase(sel, engine, log), log).Handle,
		GetBooking:          getBookingHandler.NewHandler(engine, log).Handle,
		UpdateBooking:       updateBookingHandler.NewHandler(engine, log).Handle,
		CancelBooking:       cancelBookingHandler.NewHandler(engine, log).Handle,
		CompleteBooking:     completeBookingHandler.NewHandler(engine, log).Handle,
		ConfirmBooking:      confirmBookingHandler.NewHandler(engine, log).Handle,
		GetCustomerBookings: getCustomerBookingsHandler.NewHandler(engine, log).Handle,
		GetEmployeeBookings: getEmployeeBookingsHandler.NewHandler(engine, time.UTC, log).Handle,
		GetAvailableSlots:   getAvailableSlotsHandler.NewHandler(getAvailableSlotsUC.NewUseCase(calc, rules, clk, log), time.UTC, log).Handle,
		GetCandidates:       getCandidatesHandler.NewHandler(sel, time.UTC, log).Handle,
		GetBookingRules:     getBookingRulesHandler.NewHandler(rules, log).Handle,
		UpdateBookingRules:  updateBookingRulesHandler.NewHandler(rules, log).Handle,

		GetCancellationReport: getCancellationReportHandler.NewHandler(getCancellationReportUC.NewUseCase(store.Bookings(), log), time.UTC, log).Handle,
		ModerateCancellation:  moderateCancellationHandler.NewHandler(detector, log).Handle,
	}

	srv := httptest.NewServer(NewRouter(routes, m, "/metrics"))
	t.Cleanup(srv.Close)
	return srv
}

type caller struct {
	t    *testing.T
	base string
}

func (c caller) do(method, path string, userID int64, role string, body interface{}) (*http.Response, []byte) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if userID > 0 {
		req.Header.Set("X-User-ID", fmt.Sprint(userID))
		req.Header.Set("X-User-Role", role)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(c.t, err)
	return resp, buf.Bytes()
}

func bookingBody(customerID, employeeID int64, start, end time.Time) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		CustomerID: customerID,
		PetID:      1,
		EmployeeID: employeeID,
		LocationID: 1,
		ServiceID:  1,
		StartTime:  start,
		EndTime:    end,
		Price:      1200,
	}
}

func TestRouter_BookingLifecycle(t *testing.T) {
	c := caller{t: t, base: newTestServer(t, nil).URL}

	// без заголовков идентичности
	resp, _ := c.do(http.MethodPost, "/api/v1/bookings", 0, "", bookingBody(100, 1, at(10, 0), at(10, 30)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body := c.do(http.MethodPost, "/api/v1/bookings", 100, "customer", bookingBody(0, 1, at(10, 0), at(10, 30)))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created models.BookingResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Len(t, created.Code, domain.BookingCodeLength)
	assert.Equal(t, int64(100), created.CustomerID)
	assert.Equal(t, string(domain.StatusActive), created.Status)

	// тот же слот другим клиентом
	resp, body = c.do(http.MethodPost, "/api/v1/bookings", 200, "customer", bookingBody(200, 1, at(10, 0), at(10, 30)))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, domain.RuleSlotUnavailable, errResp.Rule)

	// чужое бронирование
	path := fmt.Sprintf("/api/v1/bookings/%d", created.ID)
	resp, _ = c.do(http.MethodGet, path, 200, "customer", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, path, 100, "customer", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/v1/locations/1/employees/1/available-slots?date=2025-03-10&serviceId=1", 0, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var slots getAvailableSlotsHandler.AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(body, &slots))
	assert.Len(t, slots.Slots, 13)
	for _, s := range slots.Slots {
		assert.NotEqual(t, at(10, 0).Format(time.RFC3339), s.StartTime)
	}

	resp, body = c.do(http.MethodPatch, path+"/cancel", 100, "customer", models.CancelBookingRequest{Reason: "планы изменились"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var cancelled models.BookingResponse
	require.NoError(t, json.Unmarshal(body, &cancelled))
	assert.Equal(t, string(domain.StatusCancelledByClient), cancelled.Status)

	// терминальное бронирование не меняется
	resp, body = c.do(http.MethodPatch, path+"/complete", 1, "staff", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, domain.RuleTerminalState, errResp.Rule)

	resp, body = c.do(http.MethodGet, "/api/v1/customers/100/bookings", 100, "customer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history models.BookingListResponse
	require.NoError(t, json.Unmarshal(body, &history))
	assert.Len(t, history.Bookings, 1)
}

func TestRouter_ValidationCarriesRule(t *testing.T) {
	c := caller{t: t, base: newTestServer(t, nil).URL}

	tooSoon := sunday.Add(30 * time.Minute)
	resp, body := c.do(http.MethodPost, "/api/v1/bookings", 100, "customer", bookingBody(100, 1, tooSoon, tooSoon.Add(30*time.Minute)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, domain.RuleLeadTime, errResp.Rule)

	resp, _ = c.do(http.MethodPost, "/api/v1/bookings", 100, "customer", bookingBody(999, 1, at(10, 0), at(10, 30)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "customers book only for themselves")

	resp, _ = c.do(http.MethodGet, "/api/v1/bookings/404", 100, "customer", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_AutoAssignAndStaffViews(t *testing.T) {
	c := caller{t: t, base: newTestServer(t, nil).URL}

	body := models.AutoAssignBookingRequest{PetID: 1, LocationID: 1, ServiceID: 1, StartTime: at(11, 0), EndTime: at(11, 30)}
	resp, raw := c.do(http.MethodPost, "/api/v1/bookings/auto-assign", 100, "customer", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var first models.BookingResponse
	require.NoError(t, json.Unmarshal(raw, &first))
	assert.Equal(t, int64(2), first.EmployeeID, "equal workload, higher rating wins")

	resp, raw = c.do(http.MethodPost, "/api/v1/bookings/auto-assign", 200, "customer", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var second models.BookingResponse
	require.NoError(t, json.Unmarshal(raw, &second))
	assert.Equal(t, int64(1), second.EmployeeID)

	resp, _ = c.do(http.MethodPost, "/api/v1/bookings/auto-assign", 300, "customer", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/v1/employees/2/bookings?date=2025-03-10", 100, "customer", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = c.do(http.MethodGet, "/api/v1/employees/2/bookings?date=2025-03-10", 7, "staff", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day models.BookingListResponse
	require.NoError(t, json.Unmarshal(raw, &day))
	assert.Len(t, day.Bookings, 1)

	resp, raw = c.do(http.MethodGet, "/api/v1/locations/1/services/1/candidates?date=2025-03-10", 0, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var candidates getCandidatesHandler.CandidatesResponse
	require.NoError(t, json.Unmarshal(raw, &candidates))
	assert.Len(t, candidates.Candidates, 2)
}

func TestRouter_BookingRules(t *testing.T) {
	c := caller{t: t, base: newTestServer(t, nil).URL}

	resp, _ := c.do(http.MethodGet, "/api/v1/locations/1/booking-rules", 0, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	update := map[string]interface{}{"minBookingLeadHours": 48, "requireConfirmation": true}
	resp, _ = c.do(http.MethodPut, "/api/v1/locations/1/booking-rules", 100, "customer", update)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := c.do(http.MethodPut, "/api/v1/locations/1/booking-rules", 7, "staff", update)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	// теперь понедельник ближе, чем за 48 часов
	resp, raw = c.do(http.MethodPost, "/api/v1/bookings", 100, "customer", bookingBody(100, 1, at(10, 0), at(10, 30)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errResp))
	assert.Equal(t, domain.RuleLeadTime, errResp.Rule)
}

func TestRouter_Metrics(t *testing.T) {
	c := caller{t: t, base: newTestServer(t, metrics.New("scheduling-test")).URL}

	c.do(http.MethodGet, "/api/v1/locations/1/booking-rules", 0, "", nil)

	resp, raw := c.do(http.MethodGet, "/metrics", 0, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `path="/api/v1/locations/{locationId}/booking-rules"`)
}

func TestRouter_CancellationReportAndModeration(t *testing.T) {
	c := caller{t: t, base: newTestServer(t, nil).URL}

	var ids []int64
	for i, slot := range [][2]time.Time{{at(10, 0), at(10, 30)}, {at(11, 0), at(11, 30)}} {
		resp, body := c.do(http.MethodPost, "/api/v1/bookings", 100, "customer", bookingBody(100, int64(i+1), slot[0], slot[1]))
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var created models.BookingResponse
		require.NoError(t, json.Unmarshal(body, &created))
		ids = append(ids, created.ID)
	}

	resp, body := c.do(http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", ids[0]), 100, "customer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", ids[1]), 1, "staff", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	report := "/api/v1/reports/cancellations?from=2025-03-09&to=2025-03-09"
	resp, _ = c.do(http.MethodGet, report, 100, "customer", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/v1/reports/cancellations?from=2025-03-10&to=2025-03-09", 1, "staff", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = c.do(http.MethodGet, report, 1, "staff", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var stats getCancellationReportHandler.ReportResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByClient)
	assert.Equal(t, 1, stats.ByProvider)
	assert.Equal(t, []getCancellationReportHandler.LocationCount{{LocationID: 1, Count: 2}}, stats.ByLocation)
	assert.Len(t, stats.Cancellations, 2)

	abusePath := fmt.Sprintf("/api/v1/bookings/%d/cancellation/abuse", ids[0])
	flag := map[string]interface{}{"isAbuse": true, "abuseRuleId": 5}

	resp, _ = c.do(http.MethodPatch, abusePath, 100, "customer", flag)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(http.MethodPatch, abusePath, 1, "staff", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = c.do(http.MethodPatch, abusePath, 1, "staff", flag)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var record moderateCancellationHandler.CancellationResponse
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, ids[0], record.BookingID)
	assert.True(t, record.IsAbuse)
	require.NotNil(t, record.AbuseRuleID)
	assert.Equal(t, int64(5), *record.AbuseRuleID)

	resp, _ = c.do(http.MethodPatch, "/api/v1/bookings/404/cancellation/abuse", 1, "staff", flag)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
