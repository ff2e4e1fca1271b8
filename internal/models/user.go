package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the organizational role of a user. It is fixed at registration.
type Role string

const (
	RoleEmployee    Role = "employee"
	RoleClientAdmin Role = "client-admin"
	RoleVendor      Role = "vendor"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleClientAdmin, RoleVendor:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"size:20;not null;default:'employee'" json:"role"`
	Department   string         `gorm:"size:50;index" json:"department,omitempty"`
	VendorID     *uuid.UUID     `gorm:"type:uuid" json:"vendor_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
