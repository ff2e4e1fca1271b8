package database

import (
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// Migrate runs auto-migration for every model in dependency order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MealOpt{},
		&models.CountAdjustment{},
		&models.Finalization{},
		&models.FinalizedSubmission{},
		&models.VerifiedCoupon{},
		&models.Meal{},
		&models.SpecialMenuItem{},
		&models.Feedback{},
	)
}
