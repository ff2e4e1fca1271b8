package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/config"
	"github.com/SAGARJHA0511/MealCount/internal/api"
	"github.com/SAGARJHA0511/MealCount/internal/database"
	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/router"
	"github.com/SAGARJHA0511/MealCount/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New creates a new server instance with all services wired up
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// The app works without Redis; counts are derived per request and
		// rate limiting is skipped.
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	}

	var imageService *service.ImageService
	if s3Cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, menu image uploads disabled: %v", err)
	} else {
		imageService = service.NewImageService(s3Cfg)
	}

	emailService := service.NewEmailService(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.SMTPFrom, cfg.AdminEmail,
	)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	mealOptService := service.NewMealOptService(db, redisClient)
	countService := service.NewCountService(db, redisClient)
	finalizeService := service.NewFinalizeService(db, countService)
	couponService := service.NewCouponService(db)
	menuService := service.NewMenuService(db, imageService)
	feedbackService := service.NewFeedbackService(db, emailService)

	var optLimiter, couponLimiter *middleware.RateLimiter
	if redisClient != nil {
		optLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     20,
			KeyPrefix: "ratelimit:meal-opt",
		})
		couponLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit:coupon-verify",
		})
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewMealOptHandler(mealOptService),
		api.NewCountHandler(countService, feedbackService),
		api.NewFinalizeHandler(finalizeService),
		api.NewCouponHandler(couponService),
		api.NewMenuHandler(menuService),
		api.NewFeedbackHandler(feedbackService),
		authService,
		optLimiter,
		couponLimiter,
	)

	return &Server{
		cfg:    cfg,
		engine: engine,
		db:     db,
		redis:  redisClient,
	}, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}

	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
