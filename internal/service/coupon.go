package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

var couponCodePattern = regexp.MustCompile(`^[0-9]{4}$`)

// CouponService is the vendor-side verification ledger. It only ever grows;
// redeemed codes are never removed.
type CouponService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db, now: time.Now}
}

// Verify redeems a coupon code. The dietary type is asserted by the vendor
// at the counter and recorded verbatim; it is not cross-checked against the
// opt-in that issued the code. At-most-once redemption is guaranteed by the
// unique index on code: under concurrent attempts the database admits
// exactly one insert and the rest surface as ErrCouponAlreadyRedeemed.
func (s *CouponService) Verify(ctx context.Context, code string, diet models.DietaryType, vendorID *uuid.UUID) (*models.VerifiedCoupon, error) {
	if !couponCodePattern.MatchString(code) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCouponFormat, code)
	}
	if !models.ValidDietaryType(diet) {
		return nil, fmt.Errorf("%w: unknown dietary type %q", ErrValidation, diet)
	}

	coupon := &models.VerifiedCoupon{
		Code:        code,
		DietaryType: diet,
		VendorID:    vendorID,
		VerifiedAt:  s.now(),
	}
	if err := s.db.WithContext(ctx).Create(coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrCouponAlreadyRedeemed, code)
		}
		return nil, fmt.Errorf("failed to record coupon verification: %w", err)
	}
	return coupon, nil
}

// Verified lists redeemed coupons, newest first.
func (s *CouponService) Verified(ctx context.Context, limit int) ([]models.VerifiedCoupon, error) {
	if limit <= 0 {
		limit = 50
	}
	var coupons []models.VerifiedCoupon
	err := s.db.WithContext(ctx).
		Order("verified_at DESC").
		Limit(limit).
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verified coupons: %w", err)
	}
	return coupons, nil
}
