package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
)

// ApprovalAward is the number of points granted when a submission is
// approved.
const ApprovalAward = 10

type pointsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewPointsService(repo repositories.Repository, logger *slog.Logger) PointsService {
	return &pointsService{
		repo:   repo,
		logger: logger,
	}
}

// AwardForApproval grants the uploader their points for an approved
// document. The ledger append and the balance increment commit in one
// transaction. Non-approval outcomes award nothing.
func (s *pointsService) AwardForApproval(ctx context.Context, event DocumentApprovalEvent) error {
	if event.Status != models.StatusApproved {
		return nil
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		entry := &models.PointsHistory{
			UserID: event.UploaderID,
			Points: ApprovalAward,
			Reason: fmt.Sprintf("document %d approved", event.DocumentID),
		}
		if err := tx.Points().Append(ctx, entry); err != nil {
			return err
		}
		return tx.User().AddPoints(ctx, event.UploaderID, ApprovalAward)
	})
	if err != nil {
		return fmt.Errorf("failed to award points for document %d: %w", event.DocumentID, err)
	}

	s.logger.Info("points awarded",
		"user_id", event.UploaderID,
		"document_id", event.DocumentID,
		"points", ApprovalAward)
	return nil
}

func (s *pointsService) History(ctx context.Context, userID uint, limit int) ([]*models.PointsHistory, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	entries, err := s.repo.Points().Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list points history: %w", err)
	}
	return entries, nil
}
