package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinalizationStatus tracks the per-date workflow state.
type FinalizationStatus string

const (
	FinalizationOpen      FinalizationStatus = "open"
	FinalizationFinalized FinalizationStatus = "finalized"
	FinalizationSubmitted FinalizationStatus = "submitted"
)

// Finalization is the workflow row for one service date. Counts stay mutable
// while open or finalized; submitted is terminal until an explicit reset.
type Finalization struct {
	ID          uuid.UUID          `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Date        string             `gorm:"size:10;not null;uniqueIndex" json:"date"`
	Status      FinalizationStatus `gorm:"size:12;not null;default:'open'" json:"status"`
	FinalizedAt *time.Time         `json:"finalized_at,omitempty"`
}

func (Finalization) TableName() string {
	return "finalizations"
}

func (f *Finalization) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FinalizedSubmission is a frozen snapshot of the aggregated counts at the
// moment of submission. Rows are append-only; a reset followed by a new
// submission produces a new, distinct snapshot.
type FinalizedSubmission struct {
	ID            uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Date          string    `gorm:"size:10;not null;index" json:"date"`
	Total         int       `gorm:"not null" json:"total"`
	Vegetarian    int       `gorm:"not null" json:"vegetarian"`
	NonVegetarian int       `gorm:"not null" json:"nonVegetarian"`
	Responded     int       `gorm:"not null" json:"responded"`
	Pending       int       `gorm:"not null" json:"pending"`
	Departments   string    `gorm:"type:text" json:"-"`
	Override      bool      `gorm:"not null;default:false" json:"override"`
	SubmittedBy   uuid.UUID `gorm:"type:uuid" json:"submitted_by"`
	SubmittedAt   time.Time `gorm:"not null" json:"submitted_at"`
}

func (FinalizedSubmission) TableName() string {
	return "finalized_submissions"
}

func (s *FinalizedSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
