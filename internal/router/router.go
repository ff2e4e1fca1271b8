package router

import (
	"github.com/gin-gonic/gin"

	"github.com/SAGARJHA0511/MealCount/internal/api"
	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	mealOptHandler *api.MealOptHandler,
	countHandler *api.CountHandler,
	finalizeHandler *api.FinalizeHandler,
	couponHandler *api.CouponHandler,
	menuHandler *api.MenuHandler,
	feedbackHandler *api.FeedbackHandler,
	validator middleware.TokenValidator,
	optLimiter *middleware.RateLimiter,
	couponLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		// Menu routes, readable by everyone who is signed in
		menu := protected.Group("/menu")
		{
			menu.GET("", menuHandler.WeeklyMenu)
			menu.GET("/special", menuHandler.SpecialItems)
		}

		// Employee routes
		employee := protected.Group("")
		employee.Use(middleware.RequireRole(models.RoleEmployee))
		{
			opt := employee.Group("/meal-opt")
			if optLimiter != nil {
				opt.POST("", optLimiter.Middleware(), mealOptHandler.SetOpt)
			} else {
				opt.POST("", mealOptHandler.SetOpt)
			}
			opt.GET("", mealOptHandler.GetOpt)

			employee.POST("/feedback", feedbackHandler.Create)
		}

		// Client-admin routes
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleClientAdmin))
		{
			counts := admin.Group("/meal-counts")
			{
				counts.GET("", countHandler.GetCounts)
				counts.GET("/daily", countHandler.GetDailyReport)
				counts.POST("/adjust", countHandler.Adjust)
			}

			finalize := admin.Group("/finalize")
			{
				finalize.GET("/status", finalizeHandler.Status)
				finalize.POST("", finalizeHandler.Finalize)
				finalize.POST("/submit", finalizeHandler.Submit)
				finalize.POST("/reset", finalizeHandler.Reset)
			}
		}

		// Feedback is visible to admins and vendors
		protected.GET("/feedback",
			middleware.RequireRole(models.RoleClientAdmin, models.RoleVendor),
			feedbackHandler.List)

		// Vendor routes
		vendor := protected.Group("")
		vendor.Use(middleware.RequireRole(models.RoleVendor))
		{
			vendorMenu := vendor.Group("/vendor/menu")
			{
				vendorMenu.GET("", menuHandler.VendorMenu)
				vendorMenu.POST("", menuHandler.CreateMeal)
				vendorMenu.PUT("/:id", menuHandler.UpdateMeal)
				vendorMenu.POST("/:id/image", menuHandler.UploadMealImage)
			}

			special := vendor.Group("/vendor/special")
			{
				special.POST("", menuHandler.CreateSpecialItem)
				special.PUT("/:id", menuHandler.UpdateSpecialItem)
				special.DELETE("/:id", menuHandler.DeleteSpecialItem)
			}

			coupons := vendor.Group("/coupons")
			if couponLimiter != nil {
				coupons.POST("/verify", couponLimiter.Middleware(), couponHandler.Verify)
			} else {
				coupons.POST("/verify", couponHandler.Verify)
			}
			coupons.GET("/verified", couponHandler.Verified)

			vendor.GET("/vendor/report", finalizeHandler.VendorReport)
		}
	}

	return router
}
