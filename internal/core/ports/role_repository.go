package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// RoleRepository defines persistence operations for role definitions.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	// FindByName retrieves a role by exact name; used for uniqueness checks.
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error
	// MaxRank returns the highest rank currently assigned, or -1 when no
	// roles exist yet.
	MaxRank(ctx context.Context) (int, error)
}
