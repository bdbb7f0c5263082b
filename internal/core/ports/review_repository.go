package ports

import (
	"context"
	"time"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// ListReviewsFilter carries the query parameters for listing review requests.
type ListReviewsFilter struct {
	Status      domain.ReviewStatus // empty = all
	SubmittedBy string              // empty = all submitters
}

// ReviewResolution is the terminal decision applied to a pending request.
type ReviewResolution struct {
	Status         domain.ReviewStatus // approved or rejected
	ReviewedBy     string
	ReviewedByName string
	Comments       string
	At             time.Time
}

// ReviewRepository defines persistence operations for review requests.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.ReviewRequest) error
	FindByID(ctx context.Context, id string) (*domain.ReviewRequest, error)
	// FindPendingByProject returns the outstanding pending request for the
	// project, or domain.ErrNotFound when none exists.
	FindPendingByProject(ctx context.Context, projectID string) (*domain.ReviewRequest, error)
	List(ctx context.Context, filter ListReviewsFilter) ([]*domain.ReviewRequest, error)
	// Resolve applies a terminal decision to the request if and only if it is
	// still pending. It returns domain.ErrInvalidState when the request was
	// already resolved (the losing side of a race observes this) and
	// domain.ErrNotFound when the id is unknown. This conditional write is
	// the engine's exactly-once point for review decisions.
	Resolve(ctx context.Context, id string, res ReviewResolution) error
}
