package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Decision is an employee's opt decision for a service date.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionOptedIn  Decision = "opted-in"
	DecisionOptedOut Decision = "opted-out"
)

// DietaryType partitions meals into vegetarian and non-vegetarian.
type DietaryType string

const (
	DietVegetarian    DietaryType = "vegetarian"
	DietNonVegetarian DietaryType = "non-vegetarian"
)

// ValidDietaryType reports whether d is a known dietary type.
func ValidDietaryType(d DietaryType) bool {
	return d == DietVegetarian || d == DietNonVegetarian
}

// MealOpt is one employee's decision for one service date. There is exactly
// one row per (user, date); submissions before cutoff overwrite it in place.
type MealOpt struct {
	ID                uuid.UUID   `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_meal_opts_user_date" json:"user_id"`
	Date              string      `gorm:"size:10;not null;uniqueIndex:idx_meal_opts_user_date;index" json:"date"`
	Decision          Decision    `gorm:"size:12;not null" json:"decision"`
	DietaryPreference DietaryType `gorm:"size:16" json:"dietary_preference"`
	CouponCode        string      `gorm:"size:4" json:"coupon_code,omitempty"`
}

func (MealOpt) TableName() string {
	return "meal_opts"
}

func (m *MealOpt) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
