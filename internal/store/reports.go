package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SynilogicTeam/kundliGen/internal/models"
)

type Reports struct {
	DB *gorm.DB
}

func NewReports(db *gorm.DB) *Reports { return &Reports{DB: db} }

type ReportFilter struct {
	Type     string
	IsActive *bool
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

var reportSortColumns = map[string]bool{
	"created_at": true,
	"name":       true,
	"price":      true,
	"type":       true,
}

func (s *Reports) Create(report *models.Report) error {
	return translate(s.DB.Create(report).Error)
}

func (s *Reports) FindByID(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.DB.First(&report, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

func (s *Reports) FindByName(name string) (*models.Report, error) {
	var report models.Report
	if err := s.DB.Where("name = ?", name).First(&report).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

func (s *Reports) Update(id uuid.UUID, fields map[string]interface{}) error {
	return translate(s.DB.Model(&models.Report{}).Where("id = ?", id).Updates(fields).Error)
}

func (s *Reports) Delete(id uuid.UUID) error {
	return translate(s.DB.Delete(&models.Report{}, "id = ?", id).Error)
}

// List applies the optional filters and returns the page plus the total
// row count for pagination.
func (s *Reports) List(filter ReportFilter) ([]models.Report, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	sortBy := filter.SortBy
	if !reportSortColumns[sortBy] {
		sortBy = "created_at"
	}
	order := sortBy
	if filter.SortDesc {
		order += " desc"
	}

	query := s.DB.Model(&models.Report{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var reports []models.Report
	err := query.Order(order).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return reports, total, nil
}
