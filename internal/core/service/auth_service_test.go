package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

const testSecret = "test-signing-secret"

func newAuthService(users *stubUserRepo, roles *stubRoleRepo) *AuthService {
	return NewAuthService(users, roles, realClock{}, testSecret, time.Hour, discardLogger)
}

// realClock is used here instead of the fixed clock so issued tokens carry a
// future expiry relative to jwt's own validation clock.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func seedAccount(users *stubUserRepo, id, email, password string, status domain.UserStatus, snap domain.RoleSnapshot) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &domain.User{
		ID:           id,
		Email:        email,
		Name:         "Account " + id,
		PasswordHash: string(hash),
		Role:         snap,
		Status:       status,
	}
	users.byID[id] = u
	return u
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserActive, domain.RoleSnapshot{ID: "r1", Rank: 1})
	svc := newAuthService(users, newStubRoleRepo())

	token, user, err := svc.Login(context.Background(), "Ana@Example.com", "pass123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if user.ID != "u1" {
		t.Errorf("expected user u1, got %q", user.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserActive, domain.RoleSnapshot{})
	svc := newAuthService(users, newStubRoleRepo())

	_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_BannedAccount(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserBanned, domain.RoleSnapshot{})
	svc := newAuthService(users, newStubRoleRepo())

	_, _, err := svc.Login(context.Background(), "ana@example.com", "pass123")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("banned accounts must not log in, got %v", err)
	}
}

func TestAuthService_Login_PausedAccountStillLogsIn(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserPaused, domain.RoleSnapshot{Rank: 1})
	svc := newAuthService(users, newStubRoleRepo())

	token, _, err := svc.Login(context.Background(), "ana@example.com", "pass123")
	if err != nil || token == "" {
		t.Errorf("paused accounts log in but fail authorization later, got err=%v", err)
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestAuthService_Resolve_RoundTrip(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserActive, domain.RoleSnapshot{
		ID: "r1", Name: "Admin", Rank: 1, Permissions: []string{domain.PermViewProjects},
	})
	svc := newAuthService(users, newStubRoleRepo())

	token, _, err := svc.Login(context.Background(), "ana@example.com", "pass123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	p, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.UserID != "u1" || p.Role.Rank != 1 {
		t.Errorf("principal wrong: %+v", p)
	}
}

func TestAuthService_Resolve_PicksUpCurrentStatus(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserActive, domain.RoleSnapshot{Rank: 2})
	svc := newAuthService(users, newStubRoleRepo())

	token, _, _ := svc.Login(context.Background(), "ana@example.com", "pass123")

	// Ban the account after the token was issued.
	users.byID["u1"].Status = domain.UserBanned
	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("a banned account's token must stop resolving, got %v", err)
	}

	// Pause instead: the token resolves, but the principal is not active.
	users.byID["u1"].Status = domain.UserPaused
	p, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("paused resolve: %v", err)
	}
	if p.Status != domain.UserPaused {
		t.Errorf("expected paused principal, got %q", p.Status)
	}
}

func TestAuthService_Resolve_GarbageToken(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo())

	if _, err := svc.Resolve(context.Background(), "not.a.jwt"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Resolve_WrongSecret(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "u1", "ana@example.com", "pass123", domain.UserActive, domain.RoleSnapshot{})
	issuer := newAuthService(users, newStubRoleRepo())
	verifier := NewAuthService(users, newStubRoleRepo(), realClock{}, "other-secret", time.Hour, discardLogger)

	token, _, _ := issuer.Login(context.Background(), "ana@example.com", "pass123")
	if _, err := verifier.Resolve(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad signature, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Setup
// ---------------------------------------------------------------------------

func TestAuthService_Setup_Bootstraps(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	svc := newAuthService(users, roles)

	user, err := svc.Setup(context.Background(), ports.SetupInput{
		Email:    "root@example.com",
		Name:     "Root",
		Password: "initial-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role.Rank != domain.SuperAdminRank {
		t.Errorf("first account must hold the rank-0 role, got %d", user.Role.Rank)
	}
	if len(roles.byID) != 1 {
		t.Errorf("expected exactly one role created, got %d", len(roles.byID))
	}
	if len(users.byID) != 1 {
		t.Errorf("expected exactly one account created, got %d", len(users.byID))
	}
}

func TestAuthService_Setup_ClosedAfterFirstUser(t *testing.T) {
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{ID: "u1", Email: "a@b.com"}
	svc := newAuthService(users, newStubRoleRepo())

	_, err := svc.Setup(context.Background(), ports.SetupInput{Email: "x@y.com", Name: "X", Password: "p"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict once a user exists, got %v", err)
	}
}

func TestAuthService_Setup_Validation(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), newStubRoleRepo())

	_, err := svc.Setup(context.Background(), ports.SetupInput{Email: "bad", Name: "X", Password: "p"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
