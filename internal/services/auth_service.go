package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"golang.org/x/crypto/bcrypt"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/repositories"
	"github.com/archivus/archive-service/internal/repositories/postgres"
	"github.com/archivus/archive-service/internal/validator"
)

// CasdoorVerifier abstracts the Casdoor SDK for the OAuth login path.
type CasdoorVerifier interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

type authService struct {
	repo      repositories.Repository
	tokens    TokenService
	validator *validator.BusinessValidator
	casdoor   CasdoorVerifier
	logger    *slog.Logger
}

func NewAuthService(repo repositories.Repository, tokens TokenService, bv *validator.BusinessValidator, casdoor CasdoorVerifier, logger *slog.Logger) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		validator: bv,
		casdoor:   casdoor,
		logger:    logger,
	}
}

// Register creates a student account and issues its first session.
// No user row persists on any validation failure.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if errs := s.validator.ValidateRegister(req); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs.FieldMap()}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, NewValidationError("email", "is already registered")
	}

	if req.Username != nil && *req.Username != "" {
		taken, err := s.repo.User().ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, NewValidationError("username", "is already taken")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          email,
		Username:       req.Username,
		Role:           models.RoleStudent,
		PasswordHash:   string(hash),
		DegreeLevelID:  req.DegreeLevelID,
		ProgramID:      req.ProgramID,
		EnrollmentYear: req.EnrollmentYear,
		IsActive:       true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return s.issueFor(ctx, user)
}

// Login authenticates by email and password. Unknown accounts, disabled
// accounts and wrong passwords all fail identically.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs.FieldMap()}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, fmt.Errorf("unknown account: %w", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CanAuthenticate() {
		return nil, fmt.Errorf("account disabled: %w", ErrAuthenticationFailed)
	}
	if user.PasswordHash == "" {
		// OAuth-only account
		return nil, fmt.Errorf("no password credential: %w", ErrAuthenticationFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("credential mismatch: %w", ErrAuthenticationFailed)
	}

	return s.issueFor(ctx, user)
}

// OAuthLogin exchanges a Casdoor-issued token for a local session,
// creating a student account on first login.
func (s *authService) OAuthLogin(ctx context.Context, req *OAuthLoginRequest) (*AuthResponse, error) {
	if s.casdoor == nil {
		return nil, fmt.Errorf("oauth login not configured: %w", ErrAuthenticationFailed)
	}
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, &ValidationErrors{Fields: errs.FieldMap()}
	}

	claims, err := s.casdoor.ParseJwtToken(req.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth token: %w", ErrAuthenticationFailed)
	}
	if claims.User.Email == "" {
		return nil, fmt.Errorf("oauth token has no email: %w", ErrAuthenticationFailed)
	}

	provider := models.ProviderCasdoor
	oauthID := claims.User.Id

	user, err := s.repo.User().GetByOAuth(ctx, provider, oauthID)
	if err != nil && !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up oauth identity: %w", err)
	}
	if user == nil || postgres.IsNotFound(err) {
		user, err = s.findOrCreateOAuthUser(ctx, claims, provider, oauthID)
		if err != nil {
			return nil, err
		}
	}

	if !user.CanAuthenticate() {
		return nil, fmt.Errorf("account disabled: %w", ErrAuthenticationFailed)
	}

	return s.issueFor(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken)
}

func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	return s.tokens.Revoke(ctx, refreshToken, accessToken)
}

func (s *authService) findOrCreateOAuthUser(ctx context.Context, claims *casdoorsdk.Claims, provider models.OAuthProvider, oauthID string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(claims.User.Email))

	// An existing password account with the same email gets the provider
	// linked rather than a duplicate row.
	existing, err := s.repo.User().GetByEmail(ctx, email)
	if err == nil {
		existing.OAuthProvider = &provider
		existing.OAuthID = &oauthID
		if err := s.repo.User().Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to link oauth identity: %w", err)
		}
		return existing, nil
	}
	if !postgres.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	var username *string
	if claims.User.Name != "" {
		name := claims.User.Name
		username = &name
	}
	user := &models.User{
		Email:         email,
		Username:      username,
		Role:          models.RoleStudent,
		OAuthProvider: &provider,
		OAuthID:       &oauthID,
		IsActive:      true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	s.logger.Info("oauth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

func (s *authService) issueFor(ctx context.Context, user *models.User) (*AuthResponse, error) {
	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:   summarize(user),
		Tokens: *pair,
	}, nil
}

func summarize(user *models.User) *UserSummary {
	return &UserSummary{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		Role:           user.Role,
		Points:         user.Points,
		DegreeLevelID:  user.DegreeLevelID,
		ProgramID:      user.ProgramID,
		EnrollmentYear: user.EnrollmentYear,
	}
}
