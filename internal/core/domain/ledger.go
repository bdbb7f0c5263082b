package domain

import (
	"fmt"
	"time"
)

// ApprovedProjectEntry is one record in the append-only approval ledger.
// Entries are never mutated; administrative pruning may delete them.
type ApprovedProjectEntry struct {
	ID             string    `json:"id" bson:"_id"`
	ProjectID      string    `json:"project_id" bson:"project_id"`
	ProjectTitle   string    `json:"project_title" bson:"project_title"`
	ApprovedBy     string    `json:"approved_by" bson:"approved_by"`
	ApprovedByName string    `json:"approved_by_name" bson:"approved_by_name"`
	ApprovedAt     time.Time `json:"approved_at" bson:"approved_at"`
}

// LedgerEntryID derives the entry id from the project id and approval time.
// The timestamp component lets the same project legitimately appear multiple
// times across its history (recurring work).
func LedgerEntryID(projectID string, approvedAt time.Time) string {
	return fmt.Sprintf("%s-%d", projectID, approvedAt.UnixMilli())
}
