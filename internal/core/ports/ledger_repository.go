package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// LedgerFilter carries the query parameters for listing ledger entries.
type LedgerFilter struct {
	// TitleContains is a case-insensitive substring match on the project
	// title snapshot.
	TitleContains string
	// Month restricts entries to a calendar year-month of approved_at,
	// formatted "2006-01". Empty means all months.
	Month string
}

// LedgerRepository defines persistence operations for the approval ledger.
// Entries are insert-only; there is no update operation.
type LedgerRepository interface {
	Append(ctx context.Context, e *domain.ApprovedProjectEntry) error
	FindByID(ctx context.Context, id string) (*domain.ApprovedProjectEntry, error)
	List(ctx context.Context, filter LedgerFilter) ([]*domain.ApprovedProjectEntry, error)
	Delete(ctx context.Context, id string) error
}
