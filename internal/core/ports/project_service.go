package ports

import (
	"context"
	"time"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// CreateProjectInput carries all data needed to create a project.
type CreateProjectInput struct {
	Title         string
	Description   string
	DueDate       time.Time
	AssignedUsers []string
}

// ProjectService defines the project lifecycle operations. Status ownership
// lives here: external callers can only reach the states the transition table
// allows, and "approved" is reserved for the review workflow's cascade.
type ProjectService interface {
	Create(ctx context.Context, p domain.Principal, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Project, error)
	// List returns all projects for admin-tier principals and only assigned
	// projects for everyone else.
	List(ctx context.Context, p domain.Principal) ([]*domain.Project, error)
	// Transition moves the project to the target status under the
	// edit_projects guard. Requesting "approved" directly fails with
	// domain.ErrForbiddenTransition.
	Transition(ctx context.Context, p domain.Principal, id string, target domain.ProjectStatus) (*domain.Project, error)
	// Delete removes the project and, as a cascade, rejects any pending
	// review referencing it so no orphaned pending reviews remain.
	Delete(ctx context.Context, p domain.Principal, id string) error

	AddComment(ctx context.Context, p domain.Principal, projectID, text string) (*domain.Comment, error)
	ListComments(ctx context.Context, p domain.Principal, projectID string) ([]*domain.Comment, error)
}
