package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/middleware"
	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// AuthService handles registration, login and token validation. The role is
// fixed at registration and carried in the token; the rest of the core
// trusts the claims as-is.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// Register creates a user. Employees must name their department so the
// aggregator can scope headcounts; client-admins may link a vendor.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role models.Role, department string, vendorID *uuid.UUID) (*models.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if role == models.RoleEmployee && department == "" {
		return nil, fmt.Errorf("%w: employees must belong to a department", ErrValidation)
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Department:   department,
		VendorID:     vendorID,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GenerateToken issues an HS256 token carrying the identity the core trusts
// on every call.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"role":       string(user.Role),
		"department": user.Department,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}
	if user.VendorID != nil {
		claims["vendor_id"] = user.VendorID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses a token string into the claims the middleware puts on
// the request context.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	out := &middleware.TokenClaims{UserID: userID}
	if role, ok := claims["role"].(string); ok {
		out.Role = models.Role(role)
	}
	if dept, ok := claims["department"].(string); ok {
		out.Department = dept
	}
	if vendorStr, ok := claims["vendor_id"].(string); ok {
		if vendorID, err := uuid.Parse(vendorStr); err == nil {
			out.VendorID = &vendorID
		}
	}
	return out, nil
}
