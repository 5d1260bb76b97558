package auth

import (
	"time"
)

// Admin roles
const (
	RoleSuperAdmin = "super_admin"
	RoleScanner    = "scanner"
)

// Admin represents a dashboard or scanner operator account
type Admin struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'super_admin'" json:"role"` // super_admin | scanner
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"-"`
}

// TableName overrides table name for Admin
func (Admin) TableName() string {
	return "admins"
}

// LoginRequest is the credential payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed access token and the operator profile
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Admin       *Admin `json:"admin"`
}
