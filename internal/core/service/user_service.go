package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/agencyworks/project-system/internal/core/authz"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// UserService implements account management. Gating is the admin-tier rank
// threshold; the manage_users permission extends it to lower-ranked roles.
type UserService struct {
	users ports.UserRepository
	roles ports.RoleRepository
	clock ports.Clock
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, clock ports.Clock, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, clock: clock, log: log}
}

func (s *UserService) canManage(p domain.Principal) bool {
	return authz.CheckRank(p, domain.AdminRankCeiling) || authz.Check(p, domain.PermManageUsers)
}

func (s *UserService) Create(ctx context.Context, p domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if !s.canManage(p) {
		return nil, fmt.Errorf("create user: %w", domain.ErrForbidden)
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("create user: %w: valid email is required", domain.ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("create user: %w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("create user: %w: password is required", domain.ErrValidation)
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("create user: %w: email already registered", domain.ErrConflict)
	}

	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, fmt.Errorf("create user: role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		PasswordHash:   string(hash),
		Role:           role.Snapshot(),
		Status:         domain.UserActive,
		WhatsAppNumber: strings.TrimSpace(in.WhatsAppNumber),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role.Name).Msg("user created")
	return user, nil
}

func (s *UserService) SetStatus(ctx context.Context, p domain.Principal, userID string, status domain.UserStatus) (*domain.User, error) {
	if !s.canManage(p) {
		return nil, fmt.Errorf("set user status: %w", domain.ErrForbidden)
	}
	if !domain.ValidUserStatus(status) {
		return nil, fmt.Errorf("set user status: %w: unsupported status %q", domain.ErrValidation, status)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("set user status: %w", err)
	}

	user.Status = status
	user.UpdatedAt = s.clock.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set user status: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("status", string(status)).Msg("user status changed")
	return user, nil
}

// SyncRole re-copies the current role definition onto the account. This is
// the explicit re-issue step that refreshes a permission snapshot after the
// role itself was edited.
func (s *UserService) SyncRole(ctx context.Context, p domain.Principal, userID string) (*domain.User, error) {
	if !s.canManage(p) {
		return nil, fmt.Errorf("sync role: %w", domain.ErrForbidden)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sync role: %w", err)
	}
	role, err := s.roles.FindByID(ctx, user.Role.ID)
	if err != nil {
		return nil, fmt.Errorf("sync role: %w", err)
	}

	user.Role = role.Snapshot()
	user.UpdatedAt = s.clock.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("sync role: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("role", role.Name).Msg("role snapshot re-synced")
	return user, nil
}

func (s *UserService) List(ctx context.Context, p domain.Principal) ([]*domain.User, error) {
	if !s.canManage(p) {
		return nil, fmt.Errorf("list users: %w", domain.ErrForbidden)
	}
	return s.users.List(ctx)
}
