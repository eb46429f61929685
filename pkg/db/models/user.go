package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string         `gorm:"column:name;not null"`
	Email            string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash     string         `gorm:"column:password_hash;not null"`
	Role             enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	ResetToken       *string        `gorm:"column:reset_token"`
	ResetTokenExpiry *time.Time     `gorm:"column:reset_token_expiry"`
	LastLoginAt      *time.Time     `gorm:"column:last_login_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
