package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/cutoff"
	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// FinalizeService drives the per-date workflow open -> finalized ->
// submitted. Submitted is terminal; only an explicit reset reopens a date.
type FinalizeService struct {
	db     *gorm.DB
	counts *CountService
	now    func() time.Time
}

func NewFinalizeService(db *gorm.DB, counts *CountService) *FinalizeService {
	return &FinalizeService{
		db:     db,
		counts: counts,
		now:    time.Now,
	}
}

// WithClock overrides the wall-clock source for tests.
func (s *FinalizeService) WithClock(now func() time.Time) *FinalizeService {
	s.now = now
	return s
}

// Status returns the workflow state for date. Dates nobody has touched read
// as open without persisting anything; the row is created by the first
// mutation.
func (s *FinalizeService) Status(ctx context.Context, date string) (*models.Finalization, error) {
	var fin models.Finalization
	err := s.db.WithContext(ctx).Where("date = ?", date).First(&fin).Error
	if err == gorm.ErrRecordNotFound {
		return &models.Finalization{Date: date, Status: models.FinalizationOpen}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load finalization: %w", err)
	}
	return &fin, nil
}

// Finalize marks date as locked by the admin. It is an internal marker; the
// counts stay mutable and nothing is visible to the vendor yet.
func (s *FinalizeService) Finalize(ctx context.Context, date string) (*models.Finalization, error) {
	fin, err := s.Status(ctx, date)
	if err != nil {
		return nil, err
	}
	if fin.Status == models.FinalizationSubmitted {
		return nil, fmt.Errorf("%w: counts for %s", ErrAlreadySubmitted, date)
	}
	now := s.now()
	fin.Status = models.FinalizationFinalized
	fin.FinalizedAt = &now
	if err := s.db.WithContext(ctx).Save(fin).Error; err != nil {
		return nil, fmt.Errorf("failed to finalize counts: %w", err)
	}
	return fin, nil
}

// Submit freezes the current aggregate totals into an immutable snapshot and
// moves date to the submitted state. The default path requires the cutoff to
// have passed; override bypasses the guard and is audited distinctly.
func (s *FinalizeService) Submit(ctx context.Context, date string, adminID uuid.UUID, override bool) (*models.FinalizedSubmission, error) {
	fin, err := s.Status(ctx, date)
	if err != nil {
		return nil, err
	}
	if fin.Status == models.FinalizationSubmitted {
		return nil, fmt.Errorf("%w: counts for %s", ErrAlreadySubmitted, date)
	}
	if !cutoff.PastCutoff(s.now()) {
		if !override {
			return nil, fmt.Errorf("%w: counts for %s can be submitted after %d:00", ErrOutOfWindow, date, cutoff.Hour)
		}
		log.Printf("[override] admin %s submitted meal counts for %s before cutoff", adminID, date)
	}

	departments, totals, err := s.counts.AggregateByDepartment(ctx, date)
	if err != nil {
		return nil, err
	}
	breakdown, err := json.Marshal(departments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode department breakdown: %w", err)
	}

	snapshot := &models.FinalizedSubmission{
		Date:          date,
		Total:         totals.Total,
		Vegetarian:    totals.Vegetarian,
		NonVegetarian: totals.NonVegetarian,
		Responded:     totals.Responded,
		Pending:       totals.Pending,
		Departments:   string(breakdown),
		Override:      override,
		SubmittedBy:   adminID,
		SubmittedAt:   s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(snapshot).Error; err != nil {
			return fmt.Errorf("failed to store submission snapshot: %w", err)
		}
		fin.Status = models.FinalizationSubmitted
		return tx.Save(fin).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("submitted meal counts for %s: %d total (%d veg / %d non-veg)",
		date, snapshot.Total, snapshot.Vegetarian, snapshot.NonVegetarian)
	return snapshot, nil
}

// Reset reopens a submitted date. Existing snapshots are kept; a later
// submission appends a new one rather than rewriting history.
func (s *FinalizeService) Reset(ctx context.Context, date string) (*models.Finalization, error) {
	fin, err := s.Status(ctx, date)
	if err != nil {
		return nil, err
	}
	fin.Status = models.FinalizationOpen
	fin.FinalizedAt = nil
	if err := s.db.WithContext(ctx).Save(fin).Error; err != nil {
		return nil, fmt.Errorf("failed to reset finalization: %w", err)
	}
	return fin, nil
}

// Submission returns the latest submitted snapshot for date, available to
// the vendor only while the date is in the submitted state.
func (s *FinalizeService) Submission(ctx context.Context, date string) (*models.FinalizedSubmission, []models.DepartmentCount, error) {
	fin, err := s.Status(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if fin.Status != models.FinalizationSubmitted {
		return nil, nil, fmt.Errorf("%w: no submitted counts for %s", ErrNotFound, date)
	}

	var snapshot models.FinalizedSubmission
	err = s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("submitted_at DESC").
		First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil, fmt.Errorf("%w: no submitted counts for %s", ErrNotFound, date)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load submission: %w", err)
	}

	var departments []models.DepartmentCount
	if snapshot.Departments != "" {
		if err := json.Unmarshal([]byte(snapshot.Departments), &departments); err != nil {
			return nil, nil, fmt.Errorf("failed to decode department breakdown: %w", err)
		}
	}
	return &snapshot, departments, nil
}
