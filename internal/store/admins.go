package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SynilogicTeam/kundliGen/internal/models"
)

type Admins struct {
	DB *gorm.DB
}

func NewAdmins(db *gorm.DB) *Admins { return &Admins{DB: db} }

func (s *Admins) FindByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Admins) FindByEmailOrUsername(email string, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("email = ? OR username = ?", email, username).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Admins) FindByID(id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (s *Admins) Create(admin *models.Admin) error {
	return translate(s.DB.Create(admin).Error)
}

func (s *Admins) Update(id uuid.UUID, fields map[string]interface{}) error {
	return translate(s.DB.Model(&models.Admin{}).Where("id = ?", id).Updates(fields).Error)
}

func (s *Admins) Delete(id uuid.UUID) error {
	return translate(s.DB.Delete(&models.Admin{}, "id = ?", id).Error)
}

func (s *Admins) List() ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.DB.Order("created_at desc").Find(&admins).Error; err != nil {
		return nil, translate(err)
	}
	return admins, nil
}
