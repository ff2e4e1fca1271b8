package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SAGARJHA0511/MealCount/config"
	"github.com/SAGARJHA0511/MealCount/internal/database"
	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// Seeds a development database with one user per role, a vendor account,
// and a published weekly menu.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	password := "testpassword123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	vendor := models.User{
		Name:         "Fresh Bites Catering",
		Email:        "vendor@example.com",
		PasswordHash: string(hashedPassword),
		Role:         models.RoleVendor,
	}
	if err := db.Where("email = ?", vendor.Email).FirstOrCreate(&vendor).Error; err != nil {
		log.Fatalf("Failed to seed vendor: %v", err)
	}

	users := []models.User{
		{
			Name:         "Priya Sharma",
			Email:        "priya@example.com",
			PasswordHash: string(hashedPassword),
			Role:         models.RoleEmployee,
			Department:   "Engineering",
		},
		{
			Name:         "Rahul Verma",
			Email:        "rahul@example.com",
			PasswordHash: string(hashedPassword),
			Role:         models.RoleEmployee,
			Department:   "Sales",
		},
		{
			Name:         "Anita Desai",
			Email:        "admin@example.com",
			PasswordHash: string(hashedPassword),
			Role:         models.RoleClientAdmin,
		},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", users[i].Email, err)
		}
		log.Printf("Seeded user %s (%s)", users[i].Email, users[i].Role)
	}

	// A published menu for the current week, Monday through Friday.
	monday := startOfWeek(time.Now())
	menu := []struct {
		day        string
		mainCourse string
		sideDishes string
		dessert    string
	}{
		{"Monday", "Paneer Butter Masala with Rice", "Dal Tadka, Roti", "Gulab Jamun"},
		{"Tuesday", "Chicken Biryani", "Raita, Salad", "Fruit Custard"},
		{"Wednesday", "Rajma Chawal", "Aloo Gobi, Roti", "Kheer"},
		{"Thursday", "Fish Curry with Rice", "Bhindi Fry, Roti", "Rasmalai"},
		{"Friday", "Chole Bhature", "Veg Pulao, Salad", "Ice Cream"},
	}
	for i, entry := range menu {
		date := monday.AddDate(0, 0, i).Format("2006-01-02")
		meal := models.Meal{
			VendorID:   &vendor.ID,
			Day:        entry.day,
			Date:       date,
			MainCourse: entry.mainCourse,
			SideDishes: entry.sideDishes,
			Dessert:    entry.dessert,
			Status:     models.MealPublished,
		}
		if err := db.Where("date = ? AND vendor_id = ?", date, vendor.ID).FirstOrCreate(&meal).Error; err != nil {
			log.Fatalf("Failed to seed meal for %s: %v", date, err)
		}
	}

	log.Println("Seeding complete")
}

func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday)
}
