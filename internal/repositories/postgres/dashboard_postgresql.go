package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

type dashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardPostgreSQL{db: db}
}

func (r *dashboardPostgreSQL) GetUserCounts(ctx context.Context) (*repositories.UserCounts, error) {
	counts := &repositories.UserCounts{
		ByRole: make(map[models.UserRole]int64),
	}

	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Count(&counts.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ? AND is_banned = ?", true, false).
		Count(&counts.Active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	var rows []struct {
		Role  models.UserRole
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	for _, row := range rows {
		counts.ByRole[row.Role] = row.Count
	}

	return counts, nil
}

func (r *dashboardPostgreSQL) GetDocumentCounts(ctx context.Context) (map[models.DocumentStatus]int64, error) {
	var rows []struct {
		Status models.DocumentStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
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
