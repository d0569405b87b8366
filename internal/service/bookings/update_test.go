package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/pkg/ptr"
)

func TestUpdate_RescheduleOverlappingItself(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, customer1, employeeA, at(10, 0), at(10, 30))
	f.sink.reset()

	updated, err := f.engine.Update(context.Background(), b.ID, UpdateRequest{
		Start: ptr.Ptr(at(10, 15)),
		End:   ptr.Ptr(at(10, 45)),
	}, owner)
	require.NoError(t, err)

	assert.Equal(t, at(10, 15), updated.StartTime)
	assert.Equal(t, at(10, 45), updated.EndTime)
	assert.Equal(t, sunday, updated.UpdatedAt)
	assert.Equal(t, []string{domain.TemplateBookingRescheduled, domain.TemplateBookingRescheduled}, f.sink.templates())
	assertNoOverlaps(t, f)
}

func TestUpdate_ConflictWithAnotherBooking(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, customer1, employeeA, at(10, 0), at(10, 30))
	f.create(t, customer2, employeeA, at(11, 0), at(11, 30))

	_, err := f.engine.Update(context.Background(), b.ID, UpdateRequest{
		Start: ptr.Ptr(at(11, 15)),
		End:   ptr.Ptr(at(11, 45)),
	}, staff)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := f.engine.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, at(10, 0), stored.StartTime)
}

func TestUpdate_MoveToAnotherEmployee(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, customer1, employeeA, at(10, 0), at(10, 30))
	f.create(t, customer2, employeeB, at(11, 0), at(11, 30))
	f.sink.reset()
	ctx := context.Background()

	_, err := f.engine.Update(ctx, b.ID, UpdateRequest{
		EmployeeID: ptr.Ptr(employeeB),
		Start:      ptr.Ptr(at(11, 0)),
		End:        ptr.Ptr(at(11, 30)),
	}, staff)
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err := f.engine.Update(ctx, b.ID, UpdateRequest{EmployeeID: ptr.Ptr(employeeB)}, staff)
	require.NoError(t, err)
	assert.Equal(t, employeeB, updated.EmployeeID)

	recipients := make([]domain.Recipient, 0, len(f.sink.sent))
	for _, n := range f.sink.sent {
		recipients = append(recipients, n.Recipient)
	}
	assert.ElementsMatch(t, []domain.Recipient{
		{Kind: domain.RecipientCustomer, ID: customer1},
		{Kind: domain.RecipientEmployee, ID: employeeB},
		{Kind: domain.RecipientEmployee, ID: employeeA},
	}, recipients)

	ok, err := f.calc.IsAvailable(ctx, availabilityQuery(employeeA, at(10, 0), at(10, 30)))
	require.NoError(t, err)
	assert.True(t, ok)
	assertNoOverlaps(t, f)
}

func TestUpdate_NonScheduleFieldsDoNotNotify(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, customer1, employeeA, at(10, 0), at(10, 30))
	f.sink.reset()

	updated, err := f.engine.Update(context.Background(), b.ID, UpdateRequest{
		Price: ptr.Ptr(2000.0),
		Notes: ptr.Ptr("nervous dog"),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.Price)
	assert.Equal(t, "nervous dog", *updated.Notes)
	assert.Empty(t, f.sink.sent)
}

func TestUpdate_Rejections(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, customer1, employeeA, at(10, 0), at(10, 30))
	ctx := context.Background()

	_, err := f.engine.Update(ctx, b.ID, UpdateRequest{}, owner)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.Update(ctx, b.ID, UpdateRequest{End: ptr.Ptr(at(9, 0))}, owner)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = f.engine.Update(ctx, b.ID, UpdateRequest{Notes: ptr.Ptr("x")}, domain.Actor{UserID: customer2, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrActor)

	f.clock.Set(at(9, 30))
	_, err = f.engine.Update(ctx, b.ID, UpdateRequest{Start: ptr.Ptr(at(10, 15)), End: ptr.Ptr(at(10, 45))}, owner)
	assert.ErrorIs(t, err, ErrLeadTime)

	_, err = f.engine.Complete(ctx, b.ID, staff, domain.OutcomeCompleted)
	require.NoError(t, err)
	_, err = f.engine.Update(ctx, b.ID, UpdateRequest{Notes: ptr.Ptr("late")}, staff)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestUpdate_WorkloadExcludesItself(t *testing.T) {
	f := newFixture(t)
	f.store.AddEmployee(domain.Employee{ID: employeeA, LocationID: locationID, IsActive: true, MaxDailyHours: 1})
	b := f.create(t, customer1, employeeA, at(10, 0), at(11, 0))

	_, err := f.engine.Update(context.Background(), b.ID, UpdateRequest{
		Start: ptr.Ptr(at(14, 0)),
		End:   ptr.Ptr(at(15, 0)),
	}, staff)
	require.NoError(t, err)

	_, err = f.engine.Update(context.Background(), b.ID, UpdateRequest{
		End: ptr.Ptr(at(15, 30)),
	}, staff)
	assert.ErrorIs(t, err, ErrWorkloadCap)
}

func TestLockOrder(t *testing.T) {
	assert.Equal(t, []int64{3}, lockOrder(3, nil))
	assert.Equal(t, []int64{3}, lockOrder(3, ptr.Ptr(int64(3))))
	assert.Equal(t, []int64{1, 3}, lockOrder(3, ptr.Ptr(int64(1))))
	assert.Equal(t, []int64{3, 7}, lockOrder(3, ptr.Ptr(int64(7))))
}
