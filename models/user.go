// Package models contains domain entities and business models for the cost-update approval workflow
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserRole represents the workflow role of a user. Roles are resolved once
// at authentication time and carried in the token claims; transition logic
// never compares login names.
type UserRole string

const (
	UserRoleBuyer    UserRole = "buyer"
	UserRoleReviewer UserRole = "reviewer"
	UserRoleCoder    UserRole = "coder"
	UserRoleAdmin    UserRole = "admin"
)

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleBuyer, UserRoleReviewer, UserRoleCoder, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for UserRole
func (r *UserRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into UserRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for UserRole
func (r UserRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid UserRole: %s", r)
	}
	return string(r), nil
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid;index:idx_users_uuid" json:"uuid"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_users_email;index:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"type:user_role;not null;index:idx_users_role" json:"role"`

	IsActive    *bool      `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_users_last_login_at" json:"last_login_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// CanAct reports whether the user may trigger workflow transitions at all
func (u *User) CanAct() bool {
	return u.IsActive != nil && *u.IsActive
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	Email           *string
	Role            *UserRole
	IsActive        *bool
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	LastLoginAfter  *time.Time
	LastLoginBefore *time.Time
}
