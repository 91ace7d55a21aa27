package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SynilogicTeam/kundliGen/internal/models"
	"github.com/SynilogicTeam/kundliGen/internal/store"
)

// ReportHandler manages the report catalogue. Report generation itself goes
// through the external PDF API and is not handled here.
type ReportHandler struct {
	Reports *store.Reports
}

func NewReportHandler(reports *store.Reports) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

type createReportRequest struct {
	Name             string   `json:"name" binding:"required"`
	Type             string   `json:"type" binding:"required"`
	Price            *float64 `json:"price" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	DivineReportType string   `json:"divineReportType" binding:"required"`
	IsActive         *bool    `json:"isActive"`
}

type updateReportRequest struct {
	Name             *string  `json:"name"`
	Type             *string  `json:"type"`
	Price            *float64 `json:"price"`
	Description      *string  `json:"description"`
	DivineReportType *string  `json:"divineReportType"`
	IsActive         *bool    `json:"isActive"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "All required fields must be provided")
		return
	}
	if *req.Price < 0 {
		badRequest(c, "Price must be a positive number")
		return
	}
	if !models.ValidReportType(req.Type) {
		badRequest(c, "Invalid report type. Must be one of: "+strings.Join(models.ReportTypes, ", "))
		return
	}

	name := strings.TrimSpace(req.Name)
	if _, err := h.Reports.FindByName(name); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A report with this name already exists"})
		return
	}

	report := &models.Report{
		Name:             name,
		Type:             req.Type,
		Price:            *req.Price,
		Description:      strings.TrimSpace(req.Description),
		DivineReportType: strings.TrimSpace(req.DivineReportType),
		IsActive:         true,
	}
	if req.IsActive != nil {
		report.IsActive = *req.IsActive
	}
	if err := h.Reports.Create(report); err != nil {
		fail(c, err, "A report with this name already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Report created successfully",
		"data":    report,
	})
}

// ListActive is the public catalogue: active reports only.
func (h *ReportHandler) ListActive(c *gin.Context) {
	active := true
	filter := store.ReportFilter{
		Type:     c.Query("type"),
		IsActive: &active,
		SortBy:   "created_at",
		SortDesc: true,
		Page:     1,
		Limit:    100,
	}
	reports, total, err := h.Reports.List(filter)
	if err != nil {
		fail(c, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": total, "data": reports})
}

// List is the admin catalogue view with filtering and pagination.
func (h *ReportHandler) List(c *gin.Context) {
	filter := store.ReportFilter{
		Type:     c.Query("type"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 10),
		SortBy:   c.DefaultQuery("sortBy", "created_at"),
		SortDesc: c.DefaultQuery("sortOrder", "desc") == "desc",
	}
	if raw := c.Query("isActive"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	reports, total, err := h.Reports.List(filter)
	if err != nil {
		fail(c, err, "Failed to list reports")
		return
	}

	totalPages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reports retrieved successfully",
		"data": gin.H{
			"reports": reports,
			"pagination": gin.H{
				"currentPage":  filter.Page,
				"totalPages":   totalPages,
				"totalReports": total,
				"hasNextPage":  int64(filter.Page) < totalPages,
				"hasPrevPage":  filter.Page > 1,
			},
		},
	})
}

func (h *ReportHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid report id")
		return
	}

	report, err := h.Reports.FindByID(id)
	if err != nil {
		fail(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

func (h *ReportHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid report id")
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	report, err := h.Reports.FindByID(id)
	if err != nil {
		fail(c, err, "Report not found")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != report.Name {
			if other, err := h.Reports.FindByName(name); err == nil && other.ID != report.ID {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A report with this name already exists"})
				return
			}
			fields["name"] = name
		}
	}
	if req.Type != nil {
		if !models.ValidReportType(*req.Type) {
			badRequest(c, "Invalid report type. Must be one of: "+strings.Join(models.ReportTypes, ", "))
			return
		}
		fields["type"] = *req.Type
	}
	if req.Price != nil {
		if *req.Price < 0 {
			badRequest(c, "Price must be a positive number")
			return
		}
		fields["price"] = *req.Price
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.DivineReportType != nil {
		fields["divine_report_type"] = strings.TrimSpace(*req.DivineReportType)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := h.Reports.Update(report.ID, fields); err != nil {
			fail(c, err, "Report update failed")
			return
		}
	}

	report, err = h.Reports.FindByID(id)
	if err != nil {
		fail(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report updated successfully",
		"data":    report,
	})
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid report id")
		return
	}

	if _, err := h.Reports.FindByID(id); err != nil {
		fail(c, err, "Report not found")
		return
	}

	if err := h.Reports.Delete(id); err != nil {
		fail(c, err, "Report deletion failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report deleted successfully"})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
