package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/authz"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// RoleService implements the role registry. All mutations are super-admin
// only; rank is derived, never supplied.
type RoleService struct {
	roles ports.RoleRepository
	users ports.UserRepository
	clock ports.Clock
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, clock ports.Clock, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, clock: clock, log: log}
}

func (s *RoleService) Create(ctx context.Context, p domain.Principal, in ports.CreateRoleInput) (*domain.Role, error) {
	if !authz.CheckRank(p, domain.SuperAdminRank) {
		return nil, fmt.Errorf("create role: %w", domain.ErrForbidden)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("create role: %w: name is required", domain.ErrValidation)
	}
	if existing, err := s.roles.FindByName(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("create role: %w: name %q already in use", domain.ErrValidation, name)
	}

	maxRank, err := s.roles.MaxRank(ctx)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	rank := maxRank + 1
	if rank < 1 {
		// Rank 0 is reserved for the super-admin role and is never
		// auto-assigned.
		rank = 1
	}

	now := s.clock.Now()
	role := &domain.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Rank:        rank,
		Permissions: dedupePermissions(in.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.log.Info().Str("role_id", role.ID).Str("name", role.Name).Int("rank", role.Rank).Msg("role created")
	return role, nil
}

// Update patches name, description and permissions. Rank is immutable and
// already-assigned user snapshots are deliberately left untouched: callers
// needing a refresh re-issue the role assignment via UserService.SyncRole.
func (s *RoleService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
	if !authz.CheckRank(p, domain.SuperAdminRank) {
		return nil, fmt.Errorf("update role: %w", domain.ErrForbidden)
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("update role: %w: name is required", domain.ErrValidation)
		}
		if name != role.Name {
			if existing, err := s.roles.FindByName(ctx, name); err == nil && existing != nil {
				return nil, fmt.Errorf("update role: %w: name %q already in use", domain.ErrValidation, name)
			}
		}
		role.Name = name
	}
	if in.Description != nil {
		role.Description = strings.TrimSpace(*in.Description)
	}
	if in.Permissions != nil {
		role.Permissions = dedupePermissions(in.Permissions)
	}
	role.UpdatedAt = s.clock.Now()

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.log.Info().Str("role_id", role.ID).Msg("role updated")
	return role, nil
}

// Delete removes a role definition. The rank-0 role can never be deleted;
// reassigning users away from any other role beforehand is the caller's
// responsibility.
func (s *RoleService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !authz.CheckRank(p, domain.SuperAdminRank) {
		return fmt.Errorf("delete role: %w", domain.ErrForbidden)
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if role.Rank == domain.SuperAdminRank {
		return fmt.Errorf("delete role: %w: the super-admin role cannot be deleted", domain.ErrConflict)
	}

	assigned, err := s.users.CountByRole(ctx, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if assigned > 0 {
		// Snapshots on those users keep working; they just can no longer be
		// re-synced until reassigned.
		s.log.Warn().Str("role_id", id).Int64("assigned_users", assigned).Msg("role deleted while still assigned")
	}
	s.log.Info().Str("role_id", id).Str("name", role.Name).Int64("assigned_users", assigned).Msg("role deleted")
	return nil
}

func (s *RoleService) List(ctx context.Context, p domain.Principal) ([]*domain.Role, error) {
	if !authz.Check(p, domain.PermManageRoles) && !authz.Check(p, domain.PermManageUsers) {
		return nil, fmt.Errorf("list roles: %w", domain.ErrForbidden)
	}
	return s.roles.List(ctx)
}

// dedupePermissions trims, drops empties and removes duplicates while
// preserving first-seen order.
func dedupePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, perm := range perms {
		perm = strings.TrimSpace(perm)
		if perm == "" {
			continue
		}
		if _, ok := seen[perm]; ok {
			continue
		}
		seen[perm] = struct{}{}
		out = append(out, perm)
	}
	return out
}
