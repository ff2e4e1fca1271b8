package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerifiedCoupon is one redeemed coupon. The unique index on code is what
// enforces at-most-once redemption: concurrent verifications race on the
// insert and the database lets exactly one through.
type VerifiedCoupon struct {
	ID          uuid.UUID   `gorm:"type:uuid;primarykey" json:"id"`
	Code        string      `gorm:"size:4;not null;uniqueIndex" json:"code"`
	DietaryType DietaryType `gorm:"size:16;not null" json:"type"`
	VendorID    *uuid.UUID  `gorm:"type:uuid" json:"vendor_id,omitempty"`
	VerifiedAt  time.Time   `gorm:"not null" json:"verified_at"`
}

func (VerifiedCoupon) TableName() string {
	return "verified_coupons"
}

func (v *VerifiedCoupon) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
