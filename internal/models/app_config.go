package models

import "time"

// AppConfig is a single-row table; Get lazily creates the default row.
type AppConfig struct {
	ID uint `gorm:"primaryKey" json:"-"`

	CompanyName    string `gorm:"size:255" json:"companyName"`
	CompanyEmail   string `gorm:"size:255" json:"companyEmail"`
	CompanyPhone   string `gorm:"size:64" json:"companyPhone"`
	CompanyAddress string `gorm:"size:512" json:"companyAddress"`
	CompanyLogo    string `gorm:"size:2048" json:"companyLogo"`

	RazorpayKeyID     string `gorm:"size:255" json:"razorpayKeyId"`
	RazorpayKeySecret string `gorm:"size:255" json:"razorpayKeySecret"`

	EmailProvider  string `gorm:"size:32" json:"emailProvider"`
	SMTPHost       string `gorm:"size:255" json:"smtpHost"`
	SMTPPort       int    `json:"smtpPort"`
	SMTPUser       string `gorm:"size:255" json:"smtpUser"`
	SMTPPassword   string `gorm:"size:255" json:"smtpPassword"`
	SendgridAPIKey string `gorm:"size:255" json:"sendgridApiKey"`

	AstrologyAPIKey  string `gorm:"size:255" json:"astrologyApiKey"`
	DivineAPIKey     string `gorm:"size:255" json:"divineApiKey"`
	GoogleMapsAPIKey string `gorm:"size:255" json:"googleMapsApiKey"`

	ReportDeliveryHours int `json:"reportDeliveryHours"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		CompanyName:         "Astrology Reports",
		CompanyEmail:        "info@astrologyreports.com",
		CompanyPhone:        "+91-9876543210",
		CompanyAddress:      "123 Astrology Street, Mumbai, Maharashtra, India",
		EmailProvider:       "smtp",
		SMTPHost:            "smtp.gmail.com",
		SMTPPort:            587,
		ReportDeliveryHours: 12,
	}
}
