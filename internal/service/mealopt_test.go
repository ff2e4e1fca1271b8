package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/testhelpers"
)

func fixedClock(hour, minute, second int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, hour, minute, second, 0, time.Local)
	}
}

func TestSetOptValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewMealOptService(db, nil).WithClock(fixedClock(12, 0, 0))
	userID := uuid.New()

	_, err := svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionPending, models.DietVegetarian)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedIn, "")
	assert.ErrorIs(t, err, ErrValidation)

	// Opt-out needs no dietary preference
	_, err = svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedOut, "")
	assert.NoError(t, err)
}

func TestSetOptIssuesCouponOnce(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewMealOptService(db, nil).WithClock(fixedClock(12, 0, 0))
	userID := uuid.New()

	first, err := svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedIn, models.DietVegetarian)
	require.NoError(t, err)
	require.Len(t, first.CouponCode, 4)

	// Flipping the preference keeps the same coupon
	second, err := svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedIn, models.DietNonVegetarian)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CouponCode, second.CouponCode)
	assert.Equal(t, models.DietNonVegetarian, second.DietaryPreference)

	var rows int64
	require.NoError(t, db.Model(&models.MealOpt{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestSetOptOptOutClearsCoupon(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewMealOptService(db, nil).WithClock(fixedClock(12, 0, 0))
	userID := uuid.New()

	_, err := svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedIn, models.DietVegetarian)
	require.NoError(t, err)

	out, err := svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedOut, "")
	require.NoError(t, err)
	assert.Empty(t, out.CouponCode)

	// A fresh opt-in gets a new code
	back, err := svc.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedIn, models.DietVegetarian)
	require.NoError(t, err)
	assert.Len(t, back.CouponCode, 4)
}

func TestSetOptCutoff(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	userID := uuid.New()

	// One second before the cutoff still goes through
	early := NewMealOptService(db, nil).WithClock(fixedClock(19, 59, 59))
	_, err := early.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedIn, models.DietVegetarian)
	require.NoError(t, err)

	// At and after 8 PM every mutation is rejected
	late := NewMealOptService(db, nil).WithClock(fixedClock(20, 0, 0))
	_, err = late.SetOpt(context.Background(), userID, "2025-03-10", models.DecisionOptedOut, "")
	assert.ErrorIs(t, err, ErrOutOfWindow)

	// The stored decision is untouched
	opt, err := late.GetOpt(context.Background(), userID, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, models.DecisionOptedIn, opt.Decision)
}

func TestGetOptDefaultsToPending(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewMealOptService(db, nil)

	opt, err := svc.GetOpt(context.Background(), uuid.New(), "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, models.DecisionPending, opt.Decision)
	assert.Empty(t, opt.CouponCode)
}
