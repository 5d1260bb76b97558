package auth

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niyateshaukh/mehfil-backend/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	Login(req LoginRequest) (*LoginResponse, error)
	GetAdminByID(id uint) (*Admin, error)
}

type service struct {
	repo         Repository
	accessSecret string
	accessTTL    time.Duration
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo:         repo,
		accessSecret: cfg.JWTAccessSecret,
		accessTTL:    time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
	}
}

// =============================
// Login
// =============================
func (s *service) Login(req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(admin.ID, now); err != nil {
		log.Printf("⚠️ Failed to update last login for %s: %v", admin.Email, err)
	}
	admin.LastLogin = &now

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"name":     admin.Name,
		"role":     admin.Role,
		"exp":      now.Add(s.accessTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.accessSecret))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{AccessToken: signed, Admin: admin}, nil
}

func (s *service) GetAdminByID(id uint) (*Admin, error) {
	return s.repo.FindByID(id)
}

// =============================
// Seeding
// =============================

// SeedSuperAdmin creates the bootstrap super admin account when the
// admins table is empty. Credentials come from ADMIN_EMAIL /
// ADMIN_PASSWORD; without them seeding is skipped.
func SeedSuperAdmin(db *gorm.DB) error {
	repo := NewRepository(db)

	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ℹ️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping super admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &Admin{
		Email:        email,
		Name:         "Super Admin",
		PasswordHash: string(hash),
		Role:         RoleSuperAdmin,
	}
	if err := repo.Create(admin); err != nil {
		return err
	}

	log.Printf("✅ Seeded super admin account: %s", email)
	return nil
}
