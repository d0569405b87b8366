package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/PetCare-SchedulingService/internal/service/rules/models"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
	"github.com/m04kA/PetCare-SchedulingService/pkg/ptr"
)

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func TestResolve_DefaultsWhenNothingConfigured(t *testing.T) {
	svc := NewService(memory.NewStore().Rules(), logger.NewNop())

	rules, err := svc.Resolve(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMinBookingLeadHours, rules.MinBookingLeadHours)
	assert.Equal(t, domain.DefaultMaxBookingDays, rules.MaxBookingDays)
	assert.Equal(t, domain.DefaultMinCancellationHours, rules.MinCancellationHours)
	assert.Equal(t, domain.StatusActive, rules.InitialStatus())
}

func TestUpsert_CreatesThenUpdates(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Rules(), logger.NewNop())
	ctx := context.Background()

	created, err := svc.Upsert(ctx, &models.UpsertRulesRequest{
		Actor:               admin,
		LocationID:          5,
		MinBookingLeadHours: ptr.Ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "location", created.Level)
	assert.Equal(t, 3, created.MinBookingLeadHours)
	assert.Equal(t, domain.DefaultMaxBookingDays, created.MaxBookingDays)

	updated, err := svc.Upsert(ctx, &models.UpsertRulesRequest{
		Actor:               admin,
		LocationID:          5,
		RequireConfirmation: ptr.Ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 3, updated.MinBookingLeadHours)
	assert.True(t, updated.RequireConfirmation)

	rules, err := svc.Resolve(ctx, 5, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingConfirmation, rules.InitialStatus())

	view, err := svc.GetForLocation(ctx, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "location", view.Effective.Level)
	assert.Len(t, view.Rules, 1)
}

func TestUpsert_Rejections(t *testing.T) {
	svc := NewService(memory.NewStore().Rules(), logger.NewNop())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &models.UpsertRulesRequest{
		Actor:      domain.Actor{UserID: 9, Role: domain.RoleCustomer},
		LocationID: 5,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.RuleActor, domain.RuleOf(err))

	_, err = svc.Upsert(ctx, &models.UpsertRulesRequest{
		Actor:          admin,
		LocationID:     5,
		MaxBookingDays: ptr.Ptr(1000),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
