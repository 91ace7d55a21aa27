package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone        *string    `gorm:"uniqueIndex;size:32" json:"phone,omitempty"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Address      string     `gorm:"size:512" json:"address,omitempty"`
	IsVerified   bool       `gorm:"not null;default:false" json:"isEmailVerified"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`

	// At most one live code per purpose; issuing a new one overwrites
	// these columns in a single row update.
	RegistrationOTP        *string    `gorm:"size:8" json:"-"`
	RegistrationOTPExpires *time.Time `json:"-"`
	ResetOTP               *string    `gorm:"size:8" json:"-"`
	ResetOTPExpires        *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
