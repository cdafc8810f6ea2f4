package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

type refreshTokenPostgreSQL struct {
	db *gorm.DB
}

func NewRefreshTokenPostgreSQL(db *gorm.DB) repositories.RefreshTokenRepository {
	return &refreshTokenPostgreSQL{db: db}
}

func (r *refreshTokenPostgreSQL) Create(ctx context.Context, record *models.RefreshTokenRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create refresh token record: %w", err)
	}
	return nil
}

func (r *refreshTokenPostgreSQL) GetByID(ctx context.Context, jti string) (*models.RefreshTokenRecord, error) {
	var record models.RefreshTokenRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", jti).
		First(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token record: %w", err)
	}
	return &record, nil
}

func (r *refreshTokenPostgreSQL) Revoke(ctx context.Context, jti string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.RefreshTokenRecord{}).
		Where("id = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke refresh token record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to revoke refresh token record: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteExpired prunes records whose lifetime ended before the cutoff.
func (r *refreshTokenPostgreSQL) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.RefreshTokenRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired refresh token records: %w", result.Error)
	}
	return result.RowsAffected, nil
}
