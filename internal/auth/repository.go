package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(admin *Admin) error
	FindByEmail(email string) (*Admin, error)
	FindByID(id uint) (*Admin, error)
	UpdateLastLogin(id uint, at time.Time) error
	Count() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(admin *Admin) error {
	return r.db.Create(admin).Error
}

func (r *repository) FindByEmail(email string) (*Admin, error) {
	var admin Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) FindByID(id uint) (*Admin, error) {
	var admin Admin
	err := r.db.First(&admin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&Admin{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Admin{}).Count(&count).Error
	return count, err
}
