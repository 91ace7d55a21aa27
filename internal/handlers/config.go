package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SynilogicTeam/kundliGen/internal/store"
)

type ConfigHandler struct {
	Configs *store.Configs
}

func NewConfigHandler(configs *store.Configs) *ConfigHandler {
	return &ConfigHandler{Configs: configs}
}

type updateConfigRequest struct {
	CompanyName    *string `json:"companyName"`
	CompanyEmail   *string `json:"companyEmail"`
	CompanyPhone   *string `json:"companyPhone"`
	CompanyAddress *string `json:"companyAddress"`
	CompanyLogo    *string `json:"companyLogo"`

	RazorpayKeyID     *string `json:"razorpayKeyId"`
	RazorpayKeySecret *string `json:"razorpayKeySecret"`

	EmailProvider  *string `json:"emailProvider" binding:"omitempty,oneof=smtp sendgrid"`
	SMTPHost       *string `json:"smtpHost"`
	SMTPPort       *int    `json:"smtpPort"`
	SMTPUser       *string `json:"smtpUser"`
	SMTPPassword   *string `json:"smtpPassword"`
	SendgridAPIKey *string `json:"sendgridApiKey"`

	AstrologyAPIKey  *string `json:"astrologyApiKey"`
	DivineAPIKey     *string `json:"divineApiKey"`
	GoogleMapsAPIKey *string `json:"googleMapsApiKey"`

	ReportDeliveryHours *int `json:"reportDeliveryHours"`
}

func (r *updateConfigRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, value interface{}) {
		fields[column] = value
	}
	if r.CompanyName != nil {
		set("company_name", *r.CompanyName)
	}
	if r.CompanyEmail != nil {
		set("company_email", *r.CompanyEmail)
	}
	if r.CompanyPhone != nil {
		set("company_phone", *r.CompanyPhone)
	}
	if r.CompanyAddress != nil {
		set("company_address", *r.CompanyAddress)
	}
	if r.CompanyLogo != nil {
		set("company_logo", *r.CompanyLogo)
	}
	if r.RazorpayKeyID != nil {
		set("razorpay_key_id", *r.RazorpayKeyID)
	}
	if r.RazorpayKeySecret != nil {
		set("razorpay_key_secret", *r.RazorpayKeySecret)
	}
	if r.EmailProvider != nil {
		set("email_provider", *r.EmailProvider)
	}
	if r.SMTPHost != nil {
		set("smtp_host", *r.SMTPHost)
	}
	if r.SMTPPort != nil {
		set("smtp_port", *r.SMTPPort)
	}
	if r.SMTPUser != nil {
		set("smtp_user", *r.SMTPUser)
	}
	if r.SMTPPassword != nil {
		set("smtp_password", *r.SMTPPassword)
	}
	if r.SendgridAPIKey != nil {
		set("sendgrid_api_key", *r.SendgridAPIKey)
	}
	if r.AstrologyAPIKey != nil {
		set("astrology_api_key", *r.AstrologyAPIKey)
	}
	if r.DivineAPIKey != nil {
		set("divine_api_key", *r.DivineAPIKey)
	}
	if r.GoogleMapsAPIKey != nil {
		set("google_maps_api_key", *r.GoogleMapsAPIKey)
	}
	if r.ReportDeliveryHours != nil {
		set("report_delivery_hours", *r.ReportDeliveryHours)
	}
	return fields
}

func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.Configs.Get()
	if err != nil {
		fail(c, err, "Failed to fetch configuration")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *ConfigHandler) Update(c *gin.Context) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	cfg, err := h.Configs.Update(req.fields())
	if err != nil {
		fail(c, err, "Failed to update configuration")
		return
	}
	c.JSON(http.StatusOK, cfg)
}
