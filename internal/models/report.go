package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ReportTypes = []string{"Basic", "Sampoorna", "Ananta", "Match Making"}

type Report struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Type             string    `gorm:"size:64;not null" json:"type"`
	Price            float64   `gorm:"not null" json:"price"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	DivineReportType string    `gorm:"size:255;not null" json:"divineReportType"`
	IsActive         bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func ValidReportType(t string) bool {
	for _, v := range ReportTypes {
		if v == t {
			return true
		}
	}
	return false
}
