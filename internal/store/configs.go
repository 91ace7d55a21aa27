package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/SynilogicTeam/kundliGen/internal/models"
)

type Configs struct {
	DB *gorm.DB
}

func NewConfigs(db *gorm.DB) *Configs { return &Configs{DB: db} }

// Get returns the single config row, creating it with defaults on first
// access.
func (s *Configs) Get() (*models.AppConfig, error) {
	var cfg models.AppConfig
	err := s.DB.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.DefaultAppConfig()
		if err := s.DB.Create(&cfg).Error; err != nil {
			return nil, translate(err)
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (s *Configs) Update(fields map[string]interface{}) (*models.AppConfig, error) {
	cfg, err := s.Get()
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.DB.Model(cfg).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.Get()
}
