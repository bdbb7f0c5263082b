package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

func newRoleService(repo *stubRoleRepo) *RoleService {
	return NewRoleService(repo, newStubUserRepo(), newFixedClock(), discardLogger)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestRoleService_Create_AssignsNextRank(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r0", "Super Admin", 0)
	seedRole(repo, "r1", "Admin", 1)
	seedRole(repo, "r2", "Manager", 2)
	svc := newRoleService(repo)

	role, err := svc.Create(context.Background(), activePrincipal(0), ports.CreateRoleInput{
		Name:        "Editor",
		Permissions: []string{domain.PermViewProjects, domain.PermEditProjects},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.Rank != 3 {
		t.Errorf("expected rank 3, got %d", role.Rank)
	}
}

func TestRoleService_Create_FirstNonBootstrapRoleGetsRankOne(t *testing.T) {
	// Even with an empty registry, a created role never lands on rank 0.
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	role, err := svc.Create(context.Background(), activePrincipal(0), ports.CreateRoleInput{Name: "Admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.Rank != 1 {
		t.Errorf("expected rank 1, got %d", role.Rank)
	}
}

func TestRoleService_Create_RequiresSuperAdmin(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	_, err := svc.Create(context.Background(), activePrincipal(1, domain.PermManageRoles), ports.CreateRoleInput{Name: "Editor"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("rank 1 must not create roles even with manage_roles, got %v", err)
	}
}

func TestRoleService_Create_DuplicateName(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r1", "Editor", 1)
	svc := newRoleService(repo)

	_, err := svc.Create(context.Background(), activePrincipal(0), ports.CreateRoleInput{Name: "Editor"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate name, got %v", err)
	}
}

func TestRoleService_Create_EmptyName(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	_, err := svc.Create(context.Background(), activePrincipal(0), ports.CreateRoleInput{Name: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for blank name, got %v", err)
	}
}

func TestRoleService_Create_DedupesPermissions(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	role, err := svc.Create(context.Background(), activePrincipal(0), ports.CreateRoleInput{
		Name:        "Editor",
		Permissions: []string{domain.PermViewProjects, " ", domain.PermViewProjects, domain.PermEditProjects},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(role.Permissions) != 2 {
		t.Errorf("expected 2 deduped permissions, got %v", role.Permissions)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestRoleService_Update_PatchesFields(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r2", "Editor", 2, domain.PermViewProjects)
	svc := newRoleService(repo)

	name := "Senior Editor"
	role, err := svc.Update(context.Background(), activePrincipal(0), "r2", ports.UpdateRoleInput{
		Name:        &name,
		Permissions: []string{domain.PermViewProjects, domain.PermApproveProjects},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.Name != "Senior Editor" {
		t.Errorf("name not patched: %q", role.Name)
	}
	if len(role.Permissions) != 2 {
		t.Errorf("permissions not replaced: %v", role.Permissions)
	}
	if role.Rank != 2 {
		t.Errorf("rank must be immutable, got %d", role.Rank)
	}
}

func TestRoleService_Update_NilFieldsUnchanged(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r2", "Editor", 2, domain.PermViewProjects)
	svc := newRoleService(repo)

	role, err := svc.Update(context.Background(), activePrincipal(0), "r2", ports.UpdateRoleInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role.Name != "Editor" || len(role.Permissions) != 1 {
		t.Errorf("nil patch must leave fields unchanged: %+v", role)
	}
}

func TestRoleService_Update_DoesNotTouchUserSnapshots(t *testing.T) {
	roles := newStubRoleRepo()
	seeded := seedRole(roles, "r2", "Editor", 2, domain.PermViewProjects)
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{
		ID:     "u1",
		Email:  "e@example.com",
		Role:   seeded.Snapshot(),
		Status: domain.UserActive,
	}
	svc := newRoleService(roles)

	_, err := svc.Update(context.Background(), activePrincipal(0), "r2", ports.UpdateRoleInput{
		Permissions: []string{domain.PermViewProjects, domain.PermDeleteProjects},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The user's snapshot still reflects the old grant set until SyncRole.
	if len(users.byID["u1"].Role.Permissions) != 1 {
		t.Errorf("role edit must not mutate existing snapshots: %v", users.byID["u1"].Role.Permissions)
	}
}

func TestRoleService_Update_NotFound(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	_, err := svc.Update(context.Background(), activePrincipal(0), "missing", ports.UpdateRoleInput{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestRoleService_Delete_RejectsSuperAdminRole(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r0", "Super Admin", 0)
	svc := newRoleService(repo)

	err := svc.Delete(context.Background(), activePrincipal(0), "r0")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict deleting rank-0 role, got %v", err)
	}
}

func TestRoleService_Delete_RemovesRole(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r3", "Editor", 3)
	svc := newRoleService(repo)

	if err := svc.Delete(context.Background(), activePrincipal(0), "r3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID["r3"]; ok {
		t.Error("role still present after delete")
	}
}

func TestRoleService_Delete_SucceedsWithAssignedUsers(t *testing.T) {
	roles := newStubRoleRepo()
	seeded := seedRole(roles, "r3", "Editor", 3)
	users := newStubUserRepo()
	users.byID["u1"] = &domain.User{
		ID:     "u1",
		Email:  "e@example.com",
		Role:   seeded.Snapshot(),
		Status: domain.UserActive,
	}
	svc := NewRoleService(roles, users, newFixedClock(), discardLogger)

	// Deletion is not blocked by remaining assignments; the snapshots on
	// those users keep working until reassignment.
	if err := svc.Delete(context.Background(), activePrincipal(0), "r3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := roles.byID["r3"]; ok {
		t.Error("role still present after delete")
	}
}

func TestRoleService_Delete_UserCountFailure(t *testing.T) {
	roles := newStubRoleRepo()
	seedRole(roles, "r3", "Editor", 3)
	users := newStubUserRepo()
	users.countByRoleErr = domain.ErrUnavailable
	svc := NewRoleService(roles, users, newFixedClock(), discardLogger)

	err := svc.Delete(context.Background(), activePrincipal(0), "r3")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, ok := roles.byID["r3"]; !ok {
		t.Error("role must survive when the reference count cannot be read")
	}
}

func TestRoleService_Delete_RequiresSuperAdmin(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r3", "Editor", 3)
	svc := newRoleService(repo)

	err := svc.Delete(context.Background(), activePrincipal(1), "r3")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestRoleService_List_GatedByPermission(t *testing.T) {
	repo := newStubRoleRepo()
	seedRole(repo, "r1", "Admin", 1)
	svc := newRoleService(repo)

	if _, err := svc.List(context.Background(), activePrincipal(3, domain.PermManageUsers)); err != nil {
		t.Errorf("manage_users should allow listing roles, got %v", err)
	}
	if _, err := svc.List(context.Background(), activePrincipal(3, domain.PermViewProjects)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden without management permission, got %v", err)
	}
	if _, err := svc.List(context.Background(), activePrincipal(0)); err != nil {
		t.Errorf("rank 0 bypasses the permission check, got %v", err)
	}
}
