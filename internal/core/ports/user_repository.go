package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Count returns the total number of accounts; used by first-run setup.
	Count(ctx context.Context) (int64, error)
	// CountByRole returns how many accounts currently reference the role id
	// in their snapshot.
	CountByRole(ctx context.Context, roleID string) (int64, error)
}
