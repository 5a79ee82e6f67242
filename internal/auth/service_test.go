package auth

import (
	"context"
	"testing"
	"time"

	"github.com/artorders/artorders-backend/internal/users"
	pkgAuth "github.com/artorders/artorders-backend/pkg/auth"
	"github.com/artorders/artorders-backend/pkg/config"
	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	user          *models.User
	created       *users.CreateUserDTO
	lastLoginAt   *time.Time
	createErr     error
	findByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &dto
	user := dto.ToModel()
	user.ID = uuid.New()
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findByEmailFn != nil {
		return s.findByEmailFn(ctx, email)
	}
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginAt = &at
	return nil
}

type stubSessions struct {
	generated string
	revoked   string
	rotateErr error
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = accessID
	return "refresh-token", nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "0123456789abcdef0123456789abcdef",
		Issuer:            "artorders-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ana",
		LastName:  "Moreau",
		Email:     "ana@example.com",
		Password:  "correct horse battery",
		Role:      enums.Role("ADMIN"),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{Email: "ana@example.com"}}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ana",
		LastName:  "Moreau",
		Email:     "ANA@example.com",
		Password:  "correct horse battery",
		Role:      enums.RoleArtist,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterStoresLowercasedEmailAndRole(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newTestService(t, repo, &stubSessions{})

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ana",
		LastName:  "Moreau",
		Email:     "  ANA@Example.com ",
		Password:  "correct horse battery",
		Role:      enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if dto.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", dto.Email)
	}
	if repo.created.Role != enums.RoleCustomer {
		t.Fatalf("role not persisted: %s", repo.created.Role)
	}
	if repo.created.PasswordHash == "" || repo.created.PasswordHash == "correct horse battery" {
		t.Fatal("password not hashed")
	}
}

func TestLoginMintsTokenPairAndStampsLastLogin(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: hash,
		Role:         enums.RoleArtist,
		IsActive:     true,
	}}
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Ana@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("token pair missing")
	}
	if repo.lastLoginAt == nil {
		t.Fatal("last login not stamped")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != repo.user.ID || claims.Role != enums.RoleArtist {
		t.Fatal("claims do not match the authenticated user")
	}
	if claims.ID != sessions.generated {
		t.Fatal("jti must match the stored session access id")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, _ := security.HashPassword("correct horse battery", config.PasswordConfig{})
	repo := &stubUserRepo{user: &models.User{
		Email:        "ana@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	hash, _ := security.HashPassword("correct horse battery", config.PasswordConfig{})
	repo := &stubUserRepo{user: &models.User{
		Email:        "ana@example.com",
		PasswordHash: hash,
		IsActive:     false,
	}}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	userID := uuid.New()
	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleCustomer,
		JTI:    "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-token",
	})
	if err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatal("rotated token must keep the user identity")
	}
	if claims.ID != "new-access-id" {
		t.Fatal("rotated token must carry the new access id")
	}
	if resp.RefreshToken != "new-refresh-token" {
		t.Fatal("new refresh token not returned")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("unexpected logout error: %v", err)
	}
	if sessions.revoked != "access-id" {
		t.Fatal("session not revoked")
	}
}
