package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

type documentPostgreSQL struct {
	db *gorm.DB
}

func NewDocumentPostgreSQL(db *gorm.DB) repositories.DocumentRepository {
	return &documentPostgreSQL{db: db}
}

func (r *documentPostgreSQL) Create(ctx context.Context, doc *models.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("Course").
		Preload("AcademicYear").
		First(&doc, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}
	return &doc, nil
}

// Update rewrites the metadata columns only. Status, uploader and the file
// reference are managed by dedicated paths.
func (r *documentPostgreSQL) Update(ctx context.Context, doc *models.Document) error {
	result := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", doc.ID).
		Updates(map[string]interface{}{
			"title":            doc.Title,
			"doc_type":         doc.DocType,
			"course_id":        doc.CourseID,
			"academic_year_id": doc.AcademicYearID,
			"semester_number":  doc.SemesterNumber,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update document %d: %w", doc.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update document %d: %w", doc.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *documentPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.DocumentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update document %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update document %d status: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *documentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete document %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete document %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *documentPostgreSQL) List(ctx context.Context, filters repositories.DocumentFilters, scope repositories.DocumentScope) ([]*models.Document, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Document{})
	query = r.applyFilters(query, filters)
	query = r.applyScope(query, scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query = r.applyOrdering(query, filters)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var docs []*models.Document
	err := query.
		Preload("Uploader").
		Preload("Course").
		Find(&docs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, total, nil
}

func (r *documentPostgreSQL) CountByStatus(ctx context.Context, uploaderID *uint) (map[models.DocumentStatus]int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Document{})
	if uploaderID != nil {
		query = query.Where("uploader_id = ?", *uploaderID)
	}

	var rows []struct {
		Status models.DocumentStatus
		Count  int64
	}
	err := query.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count documents by status: %w", err)
	}

	counts := map[models.DocumentStatus]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *documentPostgreSQL) Recent(ctx context.Context, uploaderID *uint, limit int) ([]*models.Document, error) {
	query := r.db.WithContext(ctx).Model(&models.Document{})
	if uploaderID != nil {
		query = query.Where("uploader_id = ?", *uploaderID)
	}

	var docs []*models.Document
	err := query.
		Preload("Uploader").
		Order("created_at DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}
	return docs, nil
}

// ListAll streams the full register, used by the export service.
func (r *documentPostgreSQL) ListAll(ctx context.Context) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("Course").
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list all documents: %w", err)
	}
	return docs, nil
}

func (r *documentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.DocumentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UploaderID != nil {
		query = query.Where("uploader_id = ?", *filters.UploaderID)
	}
	if filters.DocType != nil {
		query = query.Where("doc_type = ?", *filters.DocType)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	return query
}

func (r *documentPostgreSQL) applyScope(query *gorm.DB, scope repositories.DocumentScope) *gorm.DB {
	if !scope.Restricted {
		return query
	}
	return query.Where("status = ? OR uploader_id = ?", models.StatusApproved, scope.ActorID)
}

func (r *documentPostgreSQL) applyOrdering(query *gorm.DB, filters repositories.DocumentFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "created_at", "status":
	default:
		sortBy = "created_at"
	}

	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}

	return query.Order(fmt.Sprintf("%s %s", sortBy, order))
}
