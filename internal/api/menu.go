package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/models"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

// maxMenuImageSize bounds uploaded menu photos.
const maxMenuImageSize = 5 << 20

type MenuHandler struct {
	menu *service.MenuService
}

func NewMenuHandler(menu *service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// WeeklyMenu lists the published menu for employees.
func (h *MenuHandler) WeeklyMenu(c *gin.Context) {
	meals, err := h.menu.WeeklyMenu(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": meals})
}

// VendorMenu lists the caller vendor's meals, drafts included.
func (h *MenuHandler) VendorMenu(c *gin.Context) {
	meals, err := h.menu.VendorMenu(c.Request.Context(), middleware.VendorID(c))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": meals})
}

// CreateMeal adds an entry to the weekly menu.
func (h *MenuHandler) CreateMeal(c *gin.Context) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal := &models.Meal{
		VendorID:   middleware.VendorID(c),
		Day:        req.Day,
		Date:       req.Date,
		MainCourse: req.MainCourse,
		SideDishes: req.SideDishes,
		Dessert:    req.Dessert,
		Status:     models.MealStatus(req.Status),
	}
	saved, err := h.menu.SaveMeal(c.Request.Context(), meal)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meal": saved})
}

// UpdateMeal applies a partial update to a menu entry.
func (h *MenuHandler) UpdateMeal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal ID"})
		return
	}

	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Day != "" {
		updates["day"] = req.Day
	}
	if req.Date != "" {
		updates["date"] = req.Date
	}
	if req.MainCourse != "" {
		updates["main_course"] = req.MainCourse
	}
	if req.SideDishes != "" {
		updates["side_dishes"] = req.SideDishes
	}
	if req.Dessert != "" {
		updates["dessert"] = req.Dessert
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	meal, err := h.menu.UpdateMeal(c.Request.Context(), id, updates)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// UploadMealImage stores a photo for a menu entry.
func (h *MenuHandler) UploadMealImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal ID"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxMenuImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds 5MB limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxMenuImageSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}

	meal, err := h.menu.AttachMealImage(c.Request.Context(), id, data, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// SpecialItems lists available special menu items.
func (h *MenuHandler) SpecialItems(c *gin.Context) {
	items, err := h.menu.SpecialItems(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateSpecialItem adds a special menu item.
func (h *MenuHandler) CreateSpecialItem(c *gin.Context) {
	var req SpecialItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.SpecialMenuItem{
		VendorID:    middleware.VendorID(c),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Vegetarian:  req.Vegetarian,
	}
	saved, err := h.menu.SaveSpecialItem(c.Request.Context(), item)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": saved})
}

// UpdateSpecialItem applies a partial update to a special menu item.
func (h *MenuHandler) UpdateSpecialItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	for _, field := range []string{"name", "price", "description", "vegetarian", "available"} {
		if value, ok := raw[field]; ok {
			updates[field] = value
		}
	}

	item, err := h.menu.UpdateSpecialItem(c.Request.Context(), id, updates)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteSpecialItem removes a special menu item.
func (h *MenuHandler) DeleteSpecialItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
		return
	}

	if err := h.menu.DeleteSpecialItem(c.Request.Context(), id); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "special menu item deleted"})
}
