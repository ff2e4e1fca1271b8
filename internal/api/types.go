package api

import (
	"errors"
	"net/http"

	"github.com/SAGARJHA0511/MealCount/internal/service"
)

type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
	VendorID   string `json:"vendor_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type MealOptRequest struct {
	Date              string `json:"date" binding:"required"`
	Decision          string `json:"decision" binding:"required"`
	DietaryPreference string `json:"dietary_preference"`
}

type AdjustCountRequest struct {
	Date       string `json:"date" binding:"required"`
	Department string `json:"department"`
	Type       string `json:"type" binding:"required"`
	Delta      int    `json:"delta" binding:"required"`
}

type SubmitRequest struct {
	Date     string `json:"date" binding:"required"`
	Override bool   `json:"override"`
}

type VerifyCouponRequest struct {
	Code string `json:"code" binding:"required"`
	Type string `json:"type" binding:"required"`
}

type FeedbackRequest struct {
	Date     string `json:"date" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
	Meal     string `json:"meal"`
}

type MealRequest struct {
	Day        string `json:"day"`
	Date       string `json:"date"`
	MainCourse string `json:"main_course"`
	SideDishes string `json:"side_dishes"`
	Dessert    string `json:"dessert"`
	Status     string `json:"status"`
}

type SpecialItemRequest struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Vegetarian  bool   `json:"vegetarian"`
}

// statusFromError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is an internal error.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCouponFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrOutOfWindow),
		errors.Is(err, service.ErrCouponAlreadyRedeemed),
		errors.Is(err, service.ErrAlreadySubmitted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
