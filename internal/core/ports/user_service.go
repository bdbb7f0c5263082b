package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// CreateUserInput carries the data needed to provision an account. The role
// identified by RoleID is copied onto the user as a snapshot; later edits to
// the role definition do not touch existing accounts until re-synced.
type CreateUserInput struct {
	Email          string
	Name           string
	Password       string
	RoleID         string
	WhatsAppNumber string
}

// UserService defines user management operations, gated to the admin tier.
type UserService interface {
	Create(ctx context.Context, p domain.Principal, in CreateUserInput) (*domain.User, error)
	// SetStatus moves an account between active, paused and banned.
	SetStatus(ctx context.Context, p domain.Principal, userID string, status domain.UserStatus) (*domain.User, error)
	// SyncRole re-copies the current definition of the user's role onto the
	// account, refreshing a stale permission snapshot.
	SyncRole(ctx context.Context, p domain.Principal, userID string) (*domain.User, error)
	List(ctx context.Context, p domain.Principal) ([]*domain.User, error)
}
