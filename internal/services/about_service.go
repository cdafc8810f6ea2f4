package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/repositories/postgres"
	"github.com/archivus/archive-service/internal/storage"
)

type aboutService struct {
	repo   repositories.Repository
	store  storage.Storage
	logger *slog.Logger
}

func NewAboutService(repo repositories.Repository, store storage.Storage, logger *slog.Logger) AboutService {
	return &aboutService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// GetAboutUs returns the public page content with stored image keys
// resolved to URLs.
func (s *aboutService) GetAboutUs(ctx context.Context) (*AboutUsResponse, error) {
	content, err := s.repo.About().GetContent(ctx)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("about-us content: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load about-us content: %w", err)
	}

	members, err := s.repo.About().TeamMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	resp := &AboutUsResponse{
		AboutUsContent: content,
		TeamMembers:    make([]*TeamMemberResponse, len(members)),
	}
	if content.LogoKey != nil && s.store != nil {
		resp.LogoURL = s.store.URL(*content.LogoKey)
	}
	for i, member := range members {
		mr := &TeamMemberResponse{TeamMember: member}
		if member.ImageKey != nil && s.store != nil {
			mr.ImageURL = s.store.URL(*member.ImageKey)
		}
		resp.TeamMembers[i] = mr
	}

	return resp, nil
}
