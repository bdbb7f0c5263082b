package ports

import (
	"context"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// ReviewService defines the review workflow. Submit/approve/reject are each
// serialized per entity; approval cascades into the project lifecycle and the
// approval ledger as one logical unit.
type ReviewService interface {
	// Submit opens a pending review for the project. The submitter must be
	// assigned to the project or hold create_reviews. At most one pending
	// request may exist per project.
	Submit(ctx context.Context, p domain.Principal, projectID string) (*domain.ReviewRequest, error)
	// List returns all requests for principals holding view_reviews and only
	// the principal's own submissions otherwise. Newest first.
	List(ctx context.Context, p domain.Principal, status domain.ReviewStatus) ([]*domain.ReviewRequest, error)
	Approve(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.ReviewRequest, error)
	Reject(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.ReviewRequest, error)
}
