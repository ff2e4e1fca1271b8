package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// FeedbackService stores meal ratings and folds them into the daily report.
type FeedbackService struct {
	db    *gorm.DB
	email IEmailService
}

func NewFeedbackService(db *gorm.DB, email IEmailService) *FeedbackService {
	return &FeedbackService{db: db, email: email}
}

// Create records a rating for a served meal. Rating is required and bounded
// to 1-5.
func (s *FeedbackService) Create(ctx context.Context, userID uuid.UUID, date string, rating int, comments, meal string) (*models.Feedback, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	feedback := &models.Feedback{
		UserID:   userID,
		Date:     date,
		Rating:   rating,
		Comments: comments,
		Meal:     meal,
	}
	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	if s.email != nil {
		go func() {
			if err := s.email.SendFeedbackNotification(feedback); err != nil {
				log.Printf("failed to send feedback notification: %v", err)
			}
		}()
	}
	return feedback, nil
}

// List returns feedback newest-first, optionally scoped to one date.
func (s *FeedbackService) List(ctx context.Context, date string, limit int) ([]models.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Preload("User").Order("date DESC, created_at DESC").Limit(limit)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	var feedback []models.Feedback
	if err := q.Find(&feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}

// AverageRating returns the mean rating for a date, or 0 when no feedback
// exists.
func (s *FeedbackService) AverageRating(ctx context.Context, date string) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("date = ?", date).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
