package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is an employee's rating of a served meal.
type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comments  string    `gorm:"type:text" json:"comments"`
	Meal      string    `gorm:"size:100" json:"meal"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
