package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// MenuService handles the vendor's weekly menu and special items.
type MenuService struct {
	db     *gorm.DB
	images *ImageService
}

func NewMenuService(db *gorm.DB, images *ImageService) *MenuService {
	return &MenuService{db: db, images: images}
}

// WeeklyMenu lists published meals sorted by date.
func (s *MenuService) WeeklyMenu(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Where("status = ?", models.MealPublished).
		Order("date").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly menu: %w", err)
	}
	return meals, nil
}

// VendorMenu lists all of a vendor's meals, drafts included.
func (s *MenuService) VendorMenu(ctx context.Context, vendorID *uuid.UUID) ([]models.Meal, error) {
	q := s.db.WithContext(ctx).Order("date")
	if vendorID != nil {
		q = q.Where("vendor_id = ?", *vendorID)
	}
	var meals []models.Meal
	if err := q.Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to load vendor menu: %w", err)
	}
	return meals, nil
}

// SaveMeal creates a menu entry. Day, date and main course are required.
func (s *MenuService) SaveMeal(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	if meal.Day == "" || meal.Date == "" || meal.MainCourse == "" {
		return nil, fmt.Errorf("%w: day, date and main course are required", ErrValidation)
	}
	if meal.Status == "" {
		meal.Status = models.MealDraft
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}
	return meal, nil
}

// UpdateMeal applies a partial update to an existing menu entry.
func (s *MenuService) UpdateMeal(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: meal %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load meal: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&meal).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}
	return &meal, nil
}

// AttachMealImage uploads image data to S3 and stores the public URL on the
// meal row.
func (s *MenuService) AttachMealImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*models.Meal, error) {
	if s.images == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", ErrValidation)
	}
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: meal %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load meal: %w", err)
	}

	url, err := s.images.UploadMenuImage(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&meal).Update("image_url", url).Error; err != nil {
		return nil, fmt.Errorf("failed to store image URL: %w", err)
	}
	meal.ImageURL = url
	return &meal, nil
}

// SpecialItems lists available special menu items.
func (s *MenuService) SpecialItems(ctx context.Context) ([]models.SpecialMenuItem, error) {
	var items []models.SpecialMenuItem
	err := s.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load special menu items: %w", err)
	}
	return items, nil
}

// SaveSpecialItem creates a special menu item. Name and price are required.
func (s *MenuService) SaveSpecialItem(ctx context.Context, item *models.SpecialMenuItem) (*models.SpecialMenuItem, error) {
	if item.Name == "" || item.Price == "" {
		return nil, fmt.Errorf("%w: name and price are required", ErrValidation)
	}
	item.Available = true
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to save special menu item: %w", err)
	}
	return item, nil
}

// UpdateSpecialItem applies a partial update to a special menu item.
func (s *MenuService) UpdateSpecialItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.SpecialMenuItem, error) {
	if name, ok := updates["name"]; ok && name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if price, ok := updates["price"]; ok && price == "" {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}

	var item models.SpecialMenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: special menu item %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load special menu item: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update special menu item: %w", err)
	}
	return &item, nil
}

// DeleteSpecialItem soft-deletes a special menu item.
func (s *MenuService) DeleteSpecialItem(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.SpecialMenuItem{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete special menu item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: special menu item %s", ErrNotFound, id)
	}
	return nil
}
