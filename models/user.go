package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the part a user plays on the marketplace
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleMechanic Role = "MECHANIC"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleMechanic, RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts a role name in any case
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User represents a marketplace user (client, mechanic or administrator)
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `json:"phone"`
	Role      Role      `gorm:"not null;default:'CLIENT'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Credential holds the password hash of a user. It only lives on the backend.
type Credential struct {
	UserID       int64  `gorm:"primaryKey"`
	User         *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PasswordHash string `gorm:"not null"`
}

// TableName specifies the table name for the Credential model
func (Credential) TableName() string {
	return "credentials"
}
