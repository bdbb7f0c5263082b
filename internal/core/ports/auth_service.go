package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// SetupInput bootstraps the very first account. Only valid while the user
// store is empty; the created account receives the rank-0 super-admin role.
type SetupInput struct {
	Email    string
	Name     string
	Password string
}

// AuthService is the identity boundary: it authenticates credentials, issues
// session tokens, and resolves tokens back to principals. The engine itself
// never sees a credential.
type AuthService interface {
	// Login verifies credentials and returns a session token. Banned
	// accounts can never authenticate; paused accounts may (their
	// authorization checks fail downstream instead).
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Resolve maps a session token to the acting principal.
	Resolve(ctx context.Context, token string) (domain.Principal, error)
	Setup(ctx context.Context, in SetupInput) (*domain.User, error)
}
