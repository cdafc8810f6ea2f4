package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

const exportSheet = "Documents"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// DocumentRegister renders the full document register as an xlsx workbook
// and returns its bytes plus a suggested filename.
func (s *exportService) DocumentRegister(ctx context.Context) ([]byte, string, error) {
	docs, err := s.repo.Document().ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load document register: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create worksheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("failed to drop default worksheet", "error", err)
	}

	header := []interface{}{"ID", "Title", "Type", "Course", "Status", "Uploader", "Uploaded At"}
	if err := file.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("failed to write header row: %w", err)
	}

	for i, doc := range docs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []interface{}{
			doc.ID,
			doc.Title,
			string(doc.DocType),
			courseLabel(doc),
			string(doc.Status),
			uploaderLabel(doc),
			doc.CreatedAt.Format(time.RFC3339),
		}
		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("documents-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	s.logger.Info("document register exported", "rows", len(docs), "filename", filename)
	return buf.Bytes(), filename, nil
}

func courseLabel(doc *models.Document) string {
	if doc.Course == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", doc.Course.Code, doc.Course.Name)
}

func uploaderLabel(doc *models.Document) string {
	if doc.Uploader == nil {
		return fmt.Sprintf("user %d", doc.UploaderID)
	}
	return doc.Uploader.Email
}
