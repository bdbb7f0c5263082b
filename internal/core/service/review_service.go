package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/authz"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// ReviewService implements the review workflow and is the only writer that
// may move a project to "approved". A failure partway through the approval
// cascade is surfaced as a PartialApprovalError so the caller can reconcile.
type ReviewService struct {
	reviews  ports.ReviewRepository
	projects ports.ProjectRepository
	ledger   ports.LedgerRepository
	locks    ports.EntityLocker
	clock    ports.Clock
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewReviewService(
	reviews ports.ReviewRepository,
	projects ports.ProjectRepository,
	ledger ports.LedgerRepository,
	locks ports.EntityLocker,
	clock ports.Clock,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		projects: projects,
		ledger:   ledger,
		locks:    locks,
		clock:    clock,
		notifier: notifier,
		log:      log,
	}
}

// Submit opens a pending review for the project. The project title is
// snapshotted onto the request so the record survives later renames.
func (s *ReviewService) Submit(ctx context.Context, p domain.Principal, projectID string) (*domain.ReviewRequest, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("submit review: %w", domain.ErrForbidden)
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}
	if !project.IsAssigned(p.UserID) && !authz.Check(p, domain.PermCreateReviews) {
		return nil, fmt.Errorf("submit review: %w", domain.ErrForbidden)
	}

	release, err := s.locks.Acquire(ctx, "project:"+projectID)
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", domain.ErrUnavailable)
	}
	defer release()

	if _, err := s.reviews.FindPendingByProject(ctx, projectID); err == nil {
		return nil, fmt.Errorf("submit review: %w: a pending review already exists for this project", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	now := s.clock.Now()
	review := &domain.ReviewRequest{
		ID:              uuid.NewString(),
		ProjectID:       projectID,
		ProjectTitle:    project.Title,
		Status:          domain.ReviewPending,
		SubmittedBy:     p.UserID,
		SubmittedByName: p.Name,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	s.log.Info().Str("review_id", review.ID).Str("project_id", projectID).Str("by", p.UserID).Msg("review submitted")
	s.notifier.Notify(ctx, project.CreatedBy, fmt.Sprintf("Project %q was submitted for review by %s.", project.Title, p.Name))
	return review, nil
}

// List returns every request for principals holding view_reviews, and only
// the principal's own submissions otherwise.
func (s *ReviewService) List(ctx context.Context, p domain.Principal, status domain.ReviewStatus) ([]*domain.ReviewRequest, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("list reviews: %w", domain.ErrForbidden)
	}

	filter := ports.ListReviewsFilter{Status: status}
	if !authz.Check(p, domain.PermViewReviews) {
		filter.SubmittedBy = p.UserID
	}
	return s.reviews.List(ctx, filter)
}

// Approve resolves a pending request, moves the project to approved and
// appends a ledger entry. The conditional resolve is the serialization point:
// of two concurrent approvals exactly one wins, the other observes
// ErrInvalidState.
func (s *ReviewService) Approve(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.ReviewRequest, error) {
	if !authz.Check(p, domain.PermApproveProjects) {
		return nil, fmt.Errorf("approve review: %w", domain.ErrForbidden)
	}

	release, err := s.locks.Acquire(ctx, "review:"+reviewID)
	if err != nil {
		return nil, fmt.Errorf("approve review: %w", domain.ErrUnavailable)
	}
	defer release()

	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("approve review: %w", err)
	}
	if review.Status != domain.ReviewPending {
		return nil, fmt.Errorf("approve review: %w: review already %s", domain.ErrInvalidState, review.Status)
	}

	now := s.clock.Now()
	res := ports.ReviewResolution{
		Status:         domain.ReviewApproved,
		ReviewedBy:     p.UserID,
		ReviewedByName: p.Name,
		Comments:       comment,
		At:             now,
	}
	if err := s.reviews.Resolve(ctx, reviewID, res); err != nil {
		return nil, fmt.Errorf("approve review: %w", err)
	}

	// From here on the review is already approved; any failure leaves a
	// partially applied approval that must be surfaced, not swallowed.
	if err := s.projects.SetStatus(ctx, review.ProjectID, domain.ProjectApproved, now); err != nil {
		s.log.Error().Err(err).Str("review_id", reviewID).Msg("approval cascade: project status update failed")
		return nil, &domain.PartialApprovalError{
			ReviewID:      reviewID,
			ReviewUpdated: true,
			Cause:         err,
		}
	}

	entry := &domain.ApprovedProjectEntry{
		ID:             domain.LedgerEntryID(review.ProjectID, now),
		ProjectID:      review.ProjectID,
		ProjectTitle:   review.ProjectTitle,
		ApprovedBy:     p.UserID,
		ApprovedByName: p.Name,
		ApprovedAt:     now,
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("review_id", reviewID).Msg("approval cascade: ledger append failed")
		return nil, &domain.PartialApprovalError{
			ReviewID:       reviewID,
			ReviewUpdated:  true,
			ProjectUpdated: true,
			Cause:          err,
		}
	}

	s.log.Info().
		Str("review_id", reviewID).
		Str("project_id", review.ProjectID).
		Str("approved_by", p.UserID).
		Msg("review approved")

	s.notifier.Notify(ctx, review.SubmittedBy, fmt.Sprintf("Project %q was approved by %s.", review.ProjectTitle, p.Name))

	review.Status = domain.ReviewApproved
	review.ReviewedBy = p.UserID
	review.ReviewedByName = p.Name
	review.Comments = comment
	review.UpdatedAt = now
	return review, nil
}

// Reject resolves a pending request without touching the project, which stays
// in its prior state for manual resubmission.
func (s *ReviewService) Reject(ctx context.Context, p domain.Principal, reviewID, comment string) (*domain.ReviewRequest, error) {
	if !authz.Check(p, domain.PermApproveProjects) {
		return nil, fmt.Errorf("reject review: %w", domain.ErrForbidden)
	}

	release, err := s.locks.Acquire(ctx, "review:"+reviewID)
	if err != nil {
		return nil, fmt.Errorf("reject review: %w", domain.ErrUnavailable)
	}
	defer release()

	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("reject review: %w", err)
	}
	if review.Status != domain.ReviewPending {
		return nil, fmt.Errorf("reject review: %w: review already %s", domain.ErrInvalidState, review.Status)
	}

	now := s.clock.Now()
	res := ports.ReviewResolution{
		Status:         domain.ReviewRejected,
		ReviewedBy:     p.UserID,
		ReviewedByName: p.Name,
		Comments:       comment,
		At:             now,
	}
	if err := s.reviews.Resolve(ctx, reviewID, res); err != nil {
		return nil, fmt.Errorf("reject review: %w", err)
	}

	s.log.Info().Str("review_id", reviewID).Str("rejected_by", p.UserID).Msg("review rejected")
	s.notifier.Notify(ctx, review.SubmittedBy, fmt.Sprintf("Project %q needs changes: %s", review.ProjectTitle, comment))

	review.Status = domain.ReviewRejected
	review.ReviewedBy = p.UserID
	review.ReviewedByName = p.Name
	review.Comments = comment
	review.UpdatedAt = now
	return review, nil
}
