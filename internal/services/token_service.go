package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/archivus/archive-service/internal/auth"
	"github.com/archivus/archive-service/internal/cache"
	"github.com/archivus/archive-service/internal/config"
	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/repositories/postgres"
)

type tokenService struct {
	repo      repositories.Repository
	blacklist *cache.TokenBlacklist
	cfg       config.JWTConfig
	logger    *slog.Logger
}

func NewTokenService(repo repositories.Repository, blacklist *cache.TokenBlacklist, cfg config.JWTConfig, logger *slog.Logger) TokenService {
	return &tokenService{
		repo:      repo,
		blacklist: blacklist,
		cfg:       cfg,
		logger:    logger,
	}
}

// Issue mints an access/refresh pair and persists the refresh issuance
// record keyed by its JTI.
func (s *tokenService) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, _, err := auth.SignToken(s.cfg.AccessSecret, s.cfg.Issuer, s.cfg.AccessTTL, user.ID, string(user.Role), auth.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, refreshClaims, err := auth.SignToken(s.cfg.RefreshSecret, s.cfg.Issuer, s.cfg.RefreshTTL, user.ID, string(user.Role), auth.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := &models.RefreshTokenRecord{
		ID:        refreshClaims.ID,
		UserID:    user.ID,
		TokenHash: auth.HashToken(refresh),
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	}
	if err := s.repo.RefreshToken().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token record: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// Verify resolves an access token to its live user. Every failure mode
// collapses to ErrAuthenticationFailed so callers leak nothing.
func (s *tokenService) Verify(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := auth.ParseToken(s.cfg.AccessSecret, accessToken, auth.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", ErrAuthenticationFailed)
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("revoked access token: %w", ErrAuthenticationFailed)
	}

	user, err := s.repo.User().GetByID(ctx, claims.UserID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("unknown subject: %w", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("failed to load token subject: %w", err)
	}
	if !user.CanAuthenticate() {
		return nil, fmt.Errorf("account disabled: %w", ErrAuthenticationFailed)
	}

	return user, nil
}

// Rotate exchanges a valid refresh token for a fresh pair. Rotation is
// single-use: the old JTI is blacklisted and its issuance record revoked
// before the new pair is minted, so the old token can never mint again.
func (s *tokenService) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, record, err := s.checkRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, record.UserID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("unknown subject: %w", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("failed to load token subject: %w", err)
	}
	if !user.CanAuthenticate() {
		return nil, fmt.Errorf("account disabled: %w", ErrAuthenticationFailed)
	}

	now := time.Now().UTC()
	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Sub(now)); err != nil {
		return nil, fmt.Errorf("failed to blacklist rotated token: %w", err)
	}
	if err := s.repo.RefreshToken().Revoke(ctx, claims.ID, now); err != nil && !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to revoke rotated token record: %w", err)
	}

	return s.Issue(ctx, user)
}

// Revoke blacklists the refresh token and, when supplied, its paired
// access token. Revoking an already-revoked refresh token returns
// ErrTokenRevoked.
func (s *tokenService) Revoke(ctx context.Context, refreshToken, accessToken string) error {
	claims, err := auth.ParseToken(s.cfg.RefreshSecret, refreshToken, auth.KindRefresh)
	if err != nil {
		return fmt.Errorf("invalid refresh token: %w", ErrAuthenticationFailed)
	}

	record, err := s.repo.RefreshToken().GetByID(ctx, claims.ID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return fmt.Errorf("unknown refresh token: %w", ErrAuthenticationFailed)
		}
		return fmt.Errorf("failed to load refresh token record: %w", err)
	}
	if record.Revoked() {
		return ErrTokenRevoked
	}

	now := time.Now().UTC()
	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Sub(now)); err != nil {
		return fmt.Errorf("failed to blacklist refresh token: %w", err)
	}
	if err := s.repo.RefreshToken().Revoke(ctx, claims.ID, now); err != nil && !postgres.IsNotFound(err) {
		return fmt.Errorf("failed to revoke refresh token record: %w", err)
	}

	if accessToken != "" {
		// Best effort: a malformed paired access token does not undo the
		// refresh revocation.
		if accessClaims, err := auth.ParseToken(s.cfg.AccessSecret, accessToken, auth.KindAccess); err == nil {
			if err := s.blacklist.Add(ctx, accessClaims.ID, accessClaims.ExpiresAt.Sub(now)); err != nil {
				s.logger.Warn("failed to blacklist access token", "jti", accessClaims.ID, "error", err)
			}
		}
	}

	return nil
}

// checkRefresh validates signature, kind, expiry, blacklist membership,
// issuance record and stored hash for a presented refresh token.
func (s *tokenService) checkRefresh(ctx context.Context, refreshToken string) (*auth.Claims, *models.RefreshTokenRecord, error) {
	claims, err := auth.ParseToken(s.cfg.RefreshSecret, refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid refresh token: %w", ErrAuthenticationFailed)
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, nil, fmt.Errorf("revoked refresh token: %w", ErrAuthenticationFailed)
	}

	record, err := s.repo.RefreshToken().GetByID(ctx, claims.ID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil, fmt.Errorf("unknown refresh token: %w", ErrAuthenticationFailed)
		}
		return nil, nil, fmt.Errorf("failed to load refresh token record: %w", err)
	}
	if record.Revoked() || record.Expired(time.Now().UTC()) {
		return nil, nil, fmt.Errorf("stale refresh token: %w", ErrAuthenticationFailed)
	}
	if record.TokenHash != auth.HashToken(refreshToken) {
		return nil, nil, fmt.Errorf("refresh token hash mismatch: %w", ErrAuthenticationFailed)
	}

	return claims, record, nil
}
