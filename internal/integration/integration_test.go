package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/service"
	"github.com/SAGARJHA0511/MealCount/internal/testhelpers"
)

// TestConcurrentCouponVerification races twenty goroutines on the same code
// against real Postgres. The unique index must admit exactly one insert.
func TestConcurrentCouponVerification(t *testing.T) {
	db := testhelpers.SetupPostgresTestDB(t)
	svc := service.NewCouponService(db)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(context.Background(), "5151", models.DietVegetarian, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, redeemed int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrCouponAlreadyRedeemed):
			redeemed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, redeemed)

	var rows int64
	require.NoError(t, db.Model(&models.VerifiedCoupon{}).Where("code = ?", "5151").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

// TestConcurrentFirstOptIn races first-time submissions for the same
// (user, date). The loser of the insert race must fall back to an update,
// never surface the duplicate-key error, and leave exactly one row.
func TestConcurrentFirstOptIn(t *testing.T) {
	db := testhelpers.SetupPostgresTestDB(t)
	svc := service.NewMealOptService(db, nil).WithClock(noonClock)
	userID := uuid.New()
	const date = "2025-03-10"

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		pref := models.DietVegetarian
		if i%2 == 1 {
			pref = models.DietNonVegetarian
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SetOpt(context.Background(), userID, date, models.DecisionOptedIn, pref)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		assert.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&models.MealOpt{}).
		Where("user_id = ? AND date = ?", userID, date).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	opt, err := svc.GetOpt(context.Background(), userID, date)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionOptedIn, opt.Decision)
	assert.Len(t, opt.CouponCode, 4)
}

// TestOptInToSubmissionFlow walks the daily workflow end to end against
// Postgres: opt-ins, an adjustment, submission, and the vendor report.
func TestOptInToSubmissionFlow(t *testing.T) {
	db := testhelpers.SetupPostgresTestDB(t)
	ctx := context.Background()

	authService := service.NewAuthService(db, "test-secret")
	countService := service.NewCountService(db, nil)
	mealOptService := service.NewMealOptService(db, nil).WithClock(noonClock)
	finalizeService := service.NewFinalizeService(db, countService).WithClock(eveningClock)

	eng, err := authService.Register(ctx, "Priya", "priya@example.com", "password123", models.RoleEmployee, "Engineering", nil)
	require.NoError(t, err)
	sales, err := authService.Register(ctx, "Rahul", "rahul@example.com", "password123", models.RoleEmployee, "Sales", nil)
	require.NoError(t, err)
	admin, err := authService.Register(ctx, "Anita", "admin@example.com", "password123", models.RoleClientAdmin, "", nil)
	require.NoError(t, err)

	const date = "2025-03-10"
	_, err = mealOptService.SetOpt(ctx, eng.ID, date, models.DecisionOptedIn, models.DietVegetarian)
	require.NoError(t, err)
	_, err = mealOptService.SetOpt(ctx, sales.ID, date, models.DecisionOptedIn, models.DietNonVegetarian)
	require.NoError(t, err)

	// One walk-in guest on the vegetarian side
	count, err := countService.Adjust(ctx, date, "Engineering", models.DietVegetarian, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count.Vegetarian)

	snapshot, err := finalizeService.Submit(ctx, date, admin.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.Total)
	assert.Equal(t, 2, snapshot.Vegetarian)
	assert.Equal(t, 1, snapshot.NonVegetarian)

	// Vendor report reflects the snapshot with the department breakdown
	stored, departments, err := finalizeService.Submission(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, stored.ID)
	require.Len(t, departments, 2)
	assert.Equal(t, "Engineering", departments[0].Department)
	assert.Equal(t, 2, departments[0].Vegetarian)
}
