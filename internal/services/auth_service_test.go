package services

import (
	"context"
	"errors"
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/archivus/archive-service/internal/models"
	"github.com/archivus/archive-service/internal/validator"
)

type fakeCasdoor struct {
	claims *casdoorsdk.Claims
	err    error
}

func (f *fakeCasdoor) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	return f.claims, f.err
}

func newTestAuthService(t *testing.T, repo *memRepository, casdoor CasdoorVerifier) AuthService {
	t.Helper()
	tokens := newTestTokenService(t, repo)
	return NewAuthService(repo, tokens, validator.NewBusinessValidator(), casdoor, testLogger())
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           "new@archivus.test",
		Password:        "long-enough-password",
		ConfirmPassword: "long-enough-password",
	}
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Role != models.RoleStudent {
		t.Errorf("new account role = %s, want student", resp.User.Role)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected a token pair on registration")
	}

	stored, err := repo.User().GetByEmail(ctx, "new@archivus.test")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.PasswordHash == "long-enough-password" {
		t.Error("password stored in clear")
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	req := registerRequest()
	req.ConfirmPassword = "different-password"
	_, err := svc.Register(ctx, req)
	fields := FieldErrors(err)
	if fields == nil {
		t.Fatalf("Register = %v, want validation error", err)
	}
	if _, ok := fields["confirm_password"]; !ok {
		t.Errorf("field errors = %v, want confirm_password entry", fields)
	}

	// Nothing was persisted.
	if exists, _ := repo.User().ExistsByEmail(ctx, req.Email); exists {
		t.Error("user row created despite failed validation")
	}
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	req := registerRequest()
	req.Email = "NEW@archivus.test" // same address, different case
	_, err := svc.Register(ctx, req)
	fields := FieldErrors(err)
	if fields == nil || fields["email"] == "" {
		t.Fatalf("duplicate Register = %v, want email field error", err)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("duplicate Register = %v, want ErrValidationFailed", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid", email: "new@archivus.test", password: "long-enough-password"},
		{name: "case insensitive email", email: "New@Archivus.test", password: "long-enough-password"},
		{name: "wrong password", email: "new@archivus.test", password: "not-the-password", wantErr: true},
		{name: "unknown account", email: "nobody@archivus.test", password: "long-enough-password", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr {
				if !errors.Is(err, ErrAuthenticationFailed) {
					t.Errorf("Login = %v, want ErrAuthenticationFailed", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Login = %v", err)
			}
		})
	}
}

func TestAuthServiceLoginDisabledAccount(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, err := repo.User().GetByID(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	user.IsActive = false
	if err := repo.User().Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	_, err = svc.Login(ctx, &LoginRequest{Email: "new@archivus.test", Password: "long-enough-password"})
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login(disabled) = %v, want ErrAuthenticationFailed", err)
	}
}

func TestAuthServiceOAuthLogin(t *testing.T) {
	repo := newMemRepository()
	casdoor := &fakeCasdoor{claims: &casdoorsdk.Claims{
		User: casdoorsdk.User{Id: "cas-123", Name: "newcomer", Email: "oauth@archivus.test"},
	}}
	svc := newTestAuthService(t, repo, casdoor)
	ctx := context.Background()

	// First login creates a student account.
	resp, err := svc.OAuthLogin(ctx, &OAuthLoginRequest{Token: "opaque"})
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if resp.User.Role != models.RoleStudent {
		t.Errorf("oauth account role = %s, want student", resp.User.Role)
	}

	// Second login reuses the same account.
	again, err := svc.OAuthLogin(ctx, &OAuthLoginRequest{Token: "opaque"})
	if err != nil {
		t.Fatalf("second OAuthLogin: %v", err)
	}
	if again.User.ID != resp.User.ID {
		t.Errorf("second login resolved user %d, want %d", again.User.ID, resp.User.ID)
	}
}

func TestAuthServiceOAuthLoginLinksExistingAccount(t *testing.T) {
	repo := newMemRepository()
	casdoor := &fakeCasdoor{claims: &casdoorsdk.Claims{
		User: casdoorsdk.User{Id: "cas-456", Email: "new@archivus.test"},
	}}
	svc := newTestAuthService(t, repo, casdoor)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.OAuthLogin(ctx, &OAuthLoginRequest{Token: "opaque"})
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if resp.User.ID != registered.User.ID {
		t.Errorf("oauth linked user %d, want existing %d", resp.User.ID, registered.User.ID)
	}

	linked, err := repo.User().GetByOAuth(ctx, models.ProviderCasdoor, "cas-456")
	if err != nil {
		t.Fatalf("GetByOAuth: %v", err)
	}
	if linked.ID != registered.User.ID {
		t.Errorf("provider linked to user %d, want %d", linked.ID, registered.User.ID)
	}
}

func TestAuthServiceOAuthLoginNotConfigured(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)

	_, err := svc.OAuthLogin(context.Background(), &OAuthLoginRequest{Token: "opaque"})
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("OAuthLogin without verifier = %v, want ErrAuthenticationFailed", err)
	}
}

func TestAuthServiceRefreshAndLogout(t *testing.T) {
	repo := newMemRepository()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	pair, err := svc.Refresh(ctx, resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := svc.Logout(ctx, pair.RefreshToken, pair.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Refresh after logout = %v, want ErrAuthenticationFailed", err)
	}
}
