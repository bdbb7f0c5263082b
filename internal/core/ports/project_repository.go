package ports

import (
	"context"
	"time"

	"github.com/agencyworks/project-system/internal/core/domain"
)

// ListProjectsFilter carries the query parameters for listing projects.
// AssignedTo scopes the result to projects the user appears on; empty means
// no scoping (admin tier).
type ListProjectsFilter struct {
	AssignedTo string
	Status     domain.ProjectStatus
}

// ProjectRepository defines persistence operations for projects and their
// comment threads.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ListProjectsFilter) ([]*domain.Project, error)
	// SetStatus updates the project status and updated_at timestamp.
	SetStatus(ctx context.Context, id string, status domain.ProjectStatus, at time.Time) error
	Delete(ctx context.Context, id string) error

	AddComment(ctx context.Context, c *domain.Comment) error
	ListComments(ctx context.Context, projectID string) ([]*domain.Comment, error)
}
