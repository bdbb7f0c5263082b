package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/authz"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// ProjectService implements the project lifecycle. It owns Project.status:
// every external transition passes through the guard table here, and the
// "approved" status is reachable only through the review workflow's cascade.
type ProjectService struct {
	projects ports.ProjectRepository
	reviews  ports.ReviewRepository
	locks    ports.EntityLocker
	clock    ports.Clock
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	reviews ports.ReviewRepository,
	locks ports.EntityLocker,
	clock ports.Clock,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, reviews: reviews, locks: locks, clock: clock, log: log}
}

func (s *ProjectService) Create(ctx context.Context, p domain.Principal, in ports.CreateProjectInput) (*domain.Project, error) {
	if !authz.Check(p, domain.PermCreateProjects) {
		return nil, fmt.Errorf("create project: %w", domain.ErrForbidden)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("create project: %w: title is required", domain.ErrValidation)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("create project: %w: due date is required", domain.ErrValidation)
	}
	if len(in.AssignedUsers) == 0 {
		return nil, fmt.Errorf("create project: %w: at least one assigned user is required", domain.ErrValidation)
	}

	now := s.clock.Now()
	project := &domain.Project{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Status:        domain.ProjectActive,
		DueDate:       in.DueDate,
		AssignedUsers: in.AssignedUsers,
		CreatedBy:     p.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", project.ID).Str("created_by", p.UserID).Msg("project created")
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Project, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("get project: %w", domain.ErrForbidden)
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !s.canSee(p, project) {
		return nil, fmt.Errorf("get project: %w", domain.ErrForbidden)
	}
	return project, nil
}

// List returns every project for admin-tier principals and only assigned
// projects for everyone else.
func (s *ProjectService) List(ctx context.Context, p domain.Principal) ([]*domain.Project, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("list projects: %w", domain.ErrForbidden)
	}

	filter := ports.ListProjectsFilter{}
	if !authz.IsAdmin(p) {
		filter.AssignedTo = p.UserID
	}
	return s.projects.List(ctx, filter)
}

// Transition moves the project to target under the edit_projects guard.
// "approved" is cascade-only and is rejected before any store access.
func (s *ProjectService) Transition(ctx context.Context, p domain.Principal, id string, target domain.ProjectStatus) (*domain.Project, error) {
	if target == domain.ProjectApproved {
		return nil, fmt.Errorf("transition project: %w", domain.ErrForbiddenTransition)
	}
	if !domain.ValidProjectStatus(target) {
		return nil, fmt.Errorf("transition project: %w: unknown status %q", domain.ErrValidation, target)
	}
	if !authz.Check(p, domain.PermEditProjects) {
		return nil, fmt.Errorf("transition project: %w", domain.ErrForbidden)
	}

	release, err := s.locks.Acquire(ctx, "project:"+id)
	if err != nil {
		return nil, fmt.Errorf("transition project: %w", domain.ErrUnavailable)
	}
	defer release()

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transition project: %w", err)
	}
	if !project.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("transition project: %w (from %s to %s)", domain.ErrInvalidState, project.Status, target)
	}

	now := s.clock.Now()
	if err := s.projects.SetStatus(ctx, id, target, now); err != nil {
		return nil, fmt.Errorf("transition project: %w", err)
	}

	s.log.Info().
		Str("project_id", id).
		Str("from", string(project.Status)).
		Str("to", string(target)).
		Str("by", p.UserID).
		Msg("project transitioned")

	project.Status = target
	project.UpdatedAt = now
	return project, nil
}

// Delete removes the project. Any pending review referencing it is rejected
// first with an auto-generated comment so no orphaned pending review remains;
// if that cascade cannot be applied, the deletion is aborted.
func (s *ProjectService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !authz.Check(p, domain.PermDeleteProjects) {
		return fmt.Errorf("delete project: %w", domain.ErrForbidden)
	}

	release, err := s.locks.Acquire(ctx, "project:"+id)
	if err != nil {
		return fmt.Errorf("delete project: %w", domain.ErrUnavailable)
	}
	defer release()

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	pending, err := s.reviews.FindPendingByProject(ctx, id)
	switch {
	case err == nil:
		res := ports.ReviewResolution{
			Status:         domain.ReviewRejected,
			ReviewedBy:     p.UserID,
			ReviewedByName: p.Name,
			Comments:       "Project was deleted before the review was resolved.",
			At:             s.clock.Now(),
		}
		if err := s.reviews.Resolve(ctx, pending.ID, res); err != nil {
			return fmt.Errorf("delete project: reject pending review: %w", err)
		}
		s.log.Info().Str("project_id", id).Str("review_id", pending.ID).Msg("pending review rejected by delete cascade")
	case errors.Is(err, domain.ErrNotFound):
		// no outstanding review
	default:
		return fmt.Errorf("delete project: %w", err)
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.log.Info().Str("project_id", id).Str("title", project.Title).Str("by", p.UserID).Msg("project deleted")
	return nil
}

func (s *ProjectService) AddComment(ctx context.Context, p domain.Principal, projectID, text string) (*domain.Comment, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("add comment: %w", domain.ErrForbidden)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("add comment: %w: text is required", domain.ErrValidation)
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if !s.canSee(p, project) {
		return nil, fmt.Errorf("add comment: %w", domain.ErrForbidden)
	}

	comment := &domain.Comment{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		AuthorID:   p.UserID,
		AuthorName: p.Name,
		Text:       text,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.projects.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

func (s *ProjectService) ListComments(ctx context.Context, p domain.Principal, projectID string) ([]*domain.Comment, error) {
	if p.Status != domain.UserActive {
		return nil, fmt.Errorf("list comments: %w", domain.ErrForbidden)
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if !s.canSee(p, project) {
		return nil, fmt.Errorf("list comments: %w", domain.ErrForbidden)
	}
	return s.projects.ListComments(ctx, projectID)
}

// canSee mirrors the List scoping: admin tier sees everything, everyone else
// only projects they are assigned to.
func (s *ProjectService) canSee(p domain.Principal, project *domain.Project) bool {
	return authz.IsAdmin(p) || project.IsAssigned(p.UserID)
}
