// Package authz is the single place authorization decisions are made.
// It combines three tiers that permission strings alone cannot express:
// an account-status gate, an unconditional rank-0 bypass, and the role's
// fine-grained permission list.
package authz

import "github.com/agencyworks/project-system/internal/core/domain"

// Check reports whether the principal may perform the named action.
// Paused and banned principals never pass, including super-admins.
func Check(p domain.Principal, action string) bool {
	if p.Status != domain.UserActive {
		return false
	}
	if p.Role.Rank == domain.SuperAdminRank {
		return true
	}
	return p.Role.Grants(action)
}

// IsSuperAdmin reports whether the principal holds the reserved rank 0.
func IsSuperAdmin(p domain.Principal) bool {
	return p.Role.Rank == domain.SuperAdminRank
}

// IsAdmin reports whether the principal is admin tier (rank 0 or 1). This is
// a rank threshold, not a permission: it gates user management and project
// visibility independently of the permission list.
func IsAdmin(p domain.Principal) bool {
	return p.Role.Rank <= domain.AdminRankCeiling
}

// CheckRank is the status-aware form of a rank-threshold gate: the principal
// must be active and hold rank maxRank or better.
func CheckRank(p domain.Principal, maxRank int) bool {
	return p.Status == domain.UserActive && p.Role.Rank <= maxRank
}
