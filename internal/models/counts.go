package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealCount is the aggregated projection consumed by the admin views.
// It is derived from meal_opts plus any administrative adjustments; it is
// never stored on its own.
type MealCount struct {
	Total         int `json:"total"`
	Vegetarian    int `json:"vegetarian"`
	NonVegetarian int `json:"nonVegetarian"`
	Responded     int `json:"responded"`
	Pending       int `json:"pending"`
}

// DepartmentCount is MealCount scoped to a single department.
type DepartmentCount struct {
	Department string `json:"department"`
	MealCount
}

// CountAdjustment stores the net administrative override applied on top of
// the derived counts for one (date, department). Deltas may be negative but
// an adjustment is rejected as a no-op when it would push the effective
// component below zero.
type CountAdjustment struct {
	ID            uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Date          string    `gorm:"size:10;not null;uniqueIndex:idx_count_adjustments_date_dept" json:"date"`
	Department    string    `gorm:"size:50;not null;uniqueIndex:idx_count_adjustments_date_dept" json:"department"`
	Vegetarian    int       `gorm:"not null;default:0" json:"vegetarian"`
	NonVegetarian int       `gorm:"not null;default:0" json:"non_vegetarian"`
}

func (CountAdjustment) TableName() string {
	return "count_adjustments"
}

func (a *CountAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
