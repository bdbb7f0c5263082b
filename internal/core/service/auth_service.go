package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// AuthService implements login, token resolution and first-run setup.
type AuthService struct {
	users     ports.UserRepository
	roles     ports.RoleRepository
	clock     ports.Clock
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, clock ports.Clock, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, roles: roles, clock: clock, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login verifies credentials and issues a session token. Banned accounts are
// rejected outright; paused accounts receive a token but fail every
// authorization check until reactivated.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.Status == domain.UserBanned {
		return "", nil, fmt.Errorf("login: account banned: %w", domain.ErrForbidden)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Resolve maps a session token to the acting principal, re-reading the user
// record so status and role snapshot are current at request time.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Principal{}, fmt.Errorf("resolve token: %w", domain.ErrInvalidCredentials)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Principal{}, fmt.Errorf("resolve token: %w", domain.ErrInvalidCredentials)
	}

	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("resolve token: %w", domain.ErrInvalidCredentials)
	}
	if user.Status == domain.UserBanned {
		return domain.Principal{}, fmt.Errorf("resolve token: account banned: %w", domain.ErrForbidden)
	}

	return user.Principal(), nil
}

// Setup bootstraps an empty installation: it creates the rank-0 super-admin
// role and the first account in one step. Once any user exists the operation
// is closed.
func (s *AuthService) Setup(ctx context.Context, in ports.SetupInput) (*domain.User, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("setup: %w: installation already initialized", domain.ErrConflict)
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("setup: %w: valid email is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("setup: %w: name and password are required", domain.ErrValidation)
	}

	now := s.clock.Now()
	role := &domain.Role{
		ID:          uuid.NewString(),
		Name:        "Super Admin",
		Description: "Unrestricted access to every operation",
		Rank:        domain.SuperAdminRank,
		Permissions: nil, // rank 0 bypasses the permission list
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("setup: create role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         role.Snapshot(),
		Status:       domain.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("setup: create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("installation bootstrapped")
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"exp":  s.clock.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
