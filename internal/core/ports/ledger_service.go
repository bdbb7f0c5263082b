package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// LedgerService exposes the read and prune side of the approval ledger.
// Appending happens exclusively inside the review workflow's approval.
type LedgerService interface {
	List(ctx context.Context, p domain.Principal, filter LedgerFilter) ([]*domain.ApprovedProjectEntry, error)
	// Remove prunes one historical entry. Gated at manage_roles tier; it
	// never touches project or review state.
	Remove(ctx context.Context, p domain.Principal, entryID string) error
}
