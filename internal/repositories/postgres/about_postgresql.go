package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

type aboutPostgreSQL struct {
	db *gorm.DB
}

func NewAboutPostgreSQL(db *gorm.DB) repositories.AboutRepository {
	return &aboutPostgreSQL{db: db}
}

// GetContent returns the singleton content row.
func (r *aboutPostgreSQL) GetContent(ctx context.Context) (*models.AboutUsContent, error) {
	var content models.AboutUsContent
	err := r.db.WithContext(ctx).
		Order("id ASC").
		First(&content).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get about-us content: %w", err)
	}
	return &content, nil
}

// UpsertContent writes the singleton row, creating it on first call.
func (r *aboutPostgreSQL) UpsertContent(ctx context.Context, content *models.AboutUsContent) error {
	var existing models.AboutUsContent
	err := r.db.WithContext(ctx).Order("id ASC").First(&existing).Error
	switch {
	case err == nil:
		content.ID = existing.ID
		if err := r.db.WithContext(ctx).Save(content).Error; err != nil {
			return fmt.Errorf("failed to update about-us content: %w", err)
		}
		return nil
	case IsNotFound(err):
		if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
			return fmt.Errorf("failed to create about-us content: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to load about-us content: %w", err)
	}
}

func (r *aboutPostgreSQL) TeamMembers(ctx context.Context) ([]*models.TeamMember, error) {
	var members []*models.TeamMember
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (r *aboutPostgreSQL) UpsertTeamMember(ctx context.Context, member *models.TeamMember) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role", "image_key", "updated_at"}),
		}).
		Create(member).Error
	if err != nil {
		return fmt.Errorf("failed to upsert team member %s: %w", member.Name, err)
	}
	return nil
}
