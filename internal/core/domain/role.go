package domain

import "time"

// Permission identifiers known to the engine. Roles may carry any subset;
// rank-0 principals bypass the list entirely.
const (
	PermViewProjects    = "view_projects"
	PermCreateProjects  = "create_projects"
	PermEditProjects    = "edit_projects"
	PermDeleteProjects  = "delete_projects"
	PermViewReviews     = "view_reviews"
	PermCreateReviews   = "create_reviews"
	PermApproveProjects = "approve_projects"
	PermManageUsers     = "manage_users"
	PermManageRoles     = "manage_roles"
	PermViewAnalytics   = "view_analytics"
	PermSendWhatsApp    = "send_whatsapp"
)

// SuperAdminRank is the reserved rank of the unconditional super-admin role.
// Lower ranks outrank higher ones; new roles are always assigned max(rank)+1.
const SuperAdminRank = 0

// AdminRankCeiling is the highest rank (inclusive) considered "admin tier"
// for user-management gating.
const AdminRankCeiling = 1

// Role defines a named authority level with a permission set.
type Role struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Rank        int       `json:"rank" bson:"rank"`
	Permissions []string  `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// RoleSnapshot is the copy of a role embedded on a user at assignment time.
// Editing the role definition later does not change existing snapshots; users
// must be explicitly re-synced.
type RoleSnapshot struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	Rank        int      `json:"rank" bson:"rank"`
	Permissions []string `json:"permissions" bson:"permissions"`
}

// Snapshot captures the role's current identity for embedding on a user.
func (r *Role) Snapshot() RoleSnapshot {
	perms := make([]string, len(r.Permissions))
	copy(perms, r.Permissions)
	return RoleSnapshot{
		ID:          r.ID,
		Name:        r.Name,
		Rank:        r.Rank,
		Permissions: perms,
	}
}

// Grants reports whether the snapshot's permission list contains the action.
// Rank-based bypass is not applied here; that lives in the authz package.
func (s RoleSnapshot) Grants(action string) bool {
	for _, p := range s.Permissions {
		if p == action {
			return true
		}
	}
	return false
}
