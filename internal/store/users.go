// Package store is the gorm-backed datastore. Not-found and duplicate-key
// errors are translated at this boundary so callers never see gorm's
// internal error values.
package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SynilogicTeam/kundliGen/internal/auth"
	"github.com/SynilogicTeam/kundliGen/internal/models"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return auth.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return auth.ErrConflict
	default:
		return err
	}
}

type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users { return &Users{DB: db} }

func (s *Users) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Users) FindByEmailOrPhone(email string, phone string) (*models.User, error) {
	query := s.DB.Where("email = ?", email)
	if phone != "" {
		query = s.DB.Where("email = ? OR phone = ?", email, phone)
	}
	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Users) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Users) FindByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Users) Create(user *models.User) error {
	return translate(s.DB.Create(user).Error)
}

// Update writes exactly the given columns; the password hash only changes
// when the caller explicitly includes it.
func (s *Users) Update(id uuid.UUID, fields map[string]interface{}) error {
	return translate(s.DB.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error)
}

func (s *Users) Delete(id uuid.UUID) error {
	return translate(s.DB.Delete(&models.User{}, "id = ?", id).Error)
}

func (s *Users) List() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}
