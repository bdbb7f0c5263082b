package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/authz"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// LedgerService exposes the approved-project history. Entries are written
// exclusively by the review approval cascade; this service only reads and,
// for administrative cleanup, removes them.
type LedgerService struct {
	ledger ports.LedgerRepository
	log    zerolog.Logger
}

func NewLedgerService(ledger ports.LedgerRepository, log zerolog.Logger) *LedgerService {
	return &LedgerService{ledger: ledger, log: log}
}

func (s *LedgerService) List(ctx context.Context, p domain.Principal, filter ports.LedgerFilter) ([]*domain.ApprovedProjectEntry, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("list ledger: %w", domain.ErrForbidden)
	}
	return s.ledger.List(ctx, filter)
}

// Remove deletes a single history entry. The matching project record is left
// untouched.
func (s *LedgerService) Remove(ctx context.Context, p domain.Principal, entryID string) error {
	if !authz.Check(p, domain.PermManageRoles) {
		return fmt.Errorf("remove ledger entry: %w", domain.ErrForbidden)
	}

	entry, err := s.ledger.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("remove ledger entry: %w", err)
	}
	if err := s.ledger.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("remove ledger entry: %w", err)
	}

	s.log.Info().Str("entry_id", entryID).Str("project_id", entry.ProjectID).Str("by", p.UserID).Msg("ledger entry removed")
	return nil
}
