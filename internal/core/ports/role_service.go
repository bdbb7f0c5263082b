package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// CreateRoleInput carries the data needed to define a new role. Rank is never
// supplied by callers: it is derived as max(existing ranks)+1 so new roles are
// always strictly lower authority than all existing ones.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleInput patches a role definition. Nil fields are left unchanged.
// Rank is intentionally absent: it is immutable once assigned.
type UpdateRoleInput struct {
	Name        *string
	Description *string
	Permissions []string // nil = unchanged, empty slice = clear
}

// RoleService defines the role registry operations. Every operation takes the
// acting principal explicitly; role management is super-admin territory.
type RoleService interface {
	Create(ctx context.Context, p domain.Principal, in CreateRoleInput) (*domain.Role, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateRoleInput) (*domain.Role, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	List(ctx context.Context, p domain.Principal) ([]*domain.Role, error)
}
