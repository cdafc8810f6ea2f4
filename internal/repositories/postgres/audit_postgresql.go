package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

// uploadLogPostgreSQL and pointsPostgreSQL back the two append-only audit
// trails. Neither exposes update or delete.

type uploadLogPostgreSQL struct {
	db *gorm.DB
}

func NewUploadLogPostgreSQL(db *gorm.DB) repositories.UploadLogRepository {
	return &uploadLogPostgreSQL{db: db}
}

func (r *uploadLogPostgreSQL) Append(ctx context.Context, log *models.UploadLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to append upload log: %w", err)
	}
	return nil
}

func (r *uploadLogPostgreSQL) ListByDocument(ctx context.Context, documentID uint) ([]*models.UploadLog, error) {
	var logs []*models.UploadLog
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("document_id = ?", documentID).
		Order("review_time DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upload logs for document %d: %w", documentID, err)
	}
	return logs, nil
}

func (r *uploadLogPostgreSQL) Recent(ctx context.Context, limit int) ([]*models.UploadLog, error) {
	var logs []*models.UploadLog
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Preload("Document").
		Order("review_time DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent upload logs: %w", err)
	}
	return logs, nil
}

type pointsPostgreSQL struct {
	db *gorm.DB
}

func NewPointsPostgreSQL(db *gorm.DB) repositories.PointsRepository {
	return &pointsPostgreSQL{db: db}
}

func (r *pointsPostgreSQL) Append(ctx context.Context, entry *models.PointsHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append points entry: %w", err)
	}
	return nil
}

func (r *pointsPostgreSQL) Recent(ctx context.Context, userID uint, limit int) ([]*models.PointsHistory, error) {
	var entries []*models.PointsHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list points history for user %d: %w", userID, err)
	}
	return entries, nil
}
