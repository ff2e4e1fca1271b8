package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealStatus is the publication state of a menu entry.
type MealStatus string

const (
	MealDraft     MealStatus = "draft"
	MealPublished MealStatus = "published"
)

// Meal is one day's entry on the weekly menu, managed by the vendor.
type Meal struct {
	ID         uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	VendorID   *uuid.UUID     `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Day        string         `gorm:"size:10;not null" json:"day"`
	Date       string         `gorm:"size:10;not null;index" json:"date"`
	MainCourse string         `gorm:"not null" json:"main_course"`
	SideDishes string         `json:"side_dishes"`
	Dessert    string         `json:"dessert"`
	ImageURL   string         `gorm:"size:255" json:"image_url,omitempty"`
	Status     MealStatus     `gorm:"size:12;not null;default:'draft'" json:"status"`
}

func (Meal) TableName() string {
	return "meals"
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SpecialMenuItem is an a-la-carte item with custom pricing, offered by the
// vendor alongside the standard menu.
type SpecialMenuItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	VendorID    *uuid.UUID     `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Price       string         `gorm:"size:20;not null" json:"price"`
	Description string         `gorm:"type:text" json:"description"`
	Vegetarian  bool           `gorm:"not null;default:false" json:"vegetarian"`
	Available   bool           `gorm:"not null;default:true" json:"available"`
}

func (SpecialMenuItem) TableName() string {
	return "special_menu_items"
}

func (s *SpecialMenuItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
