package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/cutoff"
	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// MealOptService is the per-user, per-date opt ledger.
type MealOptService struct {
	db    *gorm.DB
	cache *redis.Client
	now   func() time.Time
}

func NewMealOptService(db *gorm.DB, cache *redis.Client) *MealOptService {
	return &MealOptService{
		db:    db,
		cache: cache,
		now:   time.Now,
	}
}

// WithClock overrides the wall-clock source. Tests use this to pin the
// cutoff evaluation to a known time.
func (s *MealOptService) WithClock(now func() time.Time) *MealOptService {
	s.now = now
	return s
}

// SetOpt records or overwrites the user's decision for date. The cutoff gate
// is re-evaluated on every call; after 8 PM the mutation is rejected with
// ErrOutOfWindow. A coupon code is issued on the first opt-in for a
// (user, date) pair and preserved across re-confirmations, so flipping the
// dietary preference never invalidates an already-issued coupon. Opting out
// clears the code.
func (s *MealOptService) SetOpt(ctx context.Context, userID uuid.UUID, date string, decision models.Decision, pref models.DietaryType) (*models.MealOpt, error) {
	if decision != models.DecisionOptedIn && decision != models.DecisionOptedOut {
		return nil, fmt.Errorf("%w: decision must be opted-in or opted-out", ErrValidation)
	}
	if decision == models.DecisionOptedIn && !models.ValidDietaryType(pref) {
		return nil, fmt.Errorf("%w: dietary preference required for opt-in", ErrValidation)
	}
	if cutoff.PastCutoff(s.now()) {
		return nil, fmt.Errorf("%w: preferences for %s are locked", ErrOutOfWindow, date)
	}

	var opt models.MealOpt
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&opt).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		opt = models.MealOpt{
			UserID:            userID,
			Date:              date,
			Decision:          decision,
			DietaryPreference: pref,
		}
		if decision == models.DecisionOptedIn {
			opt.CouponCode = GenerateCouponCode()
		}
		if err := s.db.WithContext(ctx).Create(&opt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent first insert for this (user, date);
				// re-run as an update so the last write still wins.
				return s.SetOpt(ctx, userID, date, decision, pref)
			}
			return nil, fmt.Errorf("failed to record meal preference: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load meal preference: %w", err)
	default:
		opt.Decision = decision
		if decision == models.DecisionOptedIn {
			opt.DietaryPreference = pref
			if opt.CouponCode == "" {
				opt.CouponCode = GenerateCouponCode()
			}
		} else {
			opt.CouponCode = ""
		}
		if err := s.db.WithContext(ctx).Save(&opt).Error; err != nil {
			return nil, fmt.Errorf("failed to update meal preference: %w", err)
		}
	}

	s.invalidateCounts(ctx, date)
	return &opt, nil
}

// GetOpt returns the stored decision for (user, date), or a pending default
// when the user has not responded yet.
func (s *MealOptService) GetOpt(ctx context.Context, userID uuid.UUID, date string) (*models.MealOpt, error) {
	var opt models.MealOpt
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&opt).Error
	if err == gorm.ErrRecordNotFound {
		return &models.MealOpt{
			UserID:   userID,
			Date:     date,
			Decision: models.DecisionPending,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal preference: %w", err)
	}
	return &opt, nil
}

// invalidateCounts drops any cached aggregates for date. Cache misses on the
// next read re-derive from the ledger.
func (s *MealOptService) invalidateCounts(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	keys, err := s.cache.Keys(ctx, countsCacheKey(date, "*")).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		// Stale counts expire on their own TTL; nothing to recover here.
		return
	}
}
