package domain

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	// ProjectApproved is cascade-only: it is set exclusively by the review
	// workflow on approval and can never be requested directly.
	ProjectApproved ProjectStatus = "approved"
)

// validTransitions defines the externally reachable state machine edges.
// "approved" appears in no target list here; direct attempts to reach it
// must fail with ErrForbiddenTransition.
var validTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectActive:    {ProjectPaused, ProjectCompleted},
	ProjectPaused:    {ProjectActive, ProjectCompleted},
	ProjectCompleted: {ProjectActive, ProjectPaused},
}

// ValidProjectStatus reports whether s belongs to the status domain.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted, ProjectApproved:
		return true
	}
	return false
}

// CanTransitionTo reports whether an external transition from s to next is
// allowed by the state machine. Cascade targets are excluded.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Project is the unit of work the agency manages. Status is owned by the
// lifecycle rules above; only the review workflow may set it to approved.
type Project struct {
	ID            string        `json:"id" bson:"_id"`
	Title         string        `json:"title" bson:"title"`
	Description   string        `json:"description,omitempty" bson:"description,omitempty"`
	Status        ProjectStatus `json:"status" bson:"status"`
	DueDate       time.Time     `json:"due_date" bson:"due_date"`
	AssignedUsers []string      `json:"assigned_users" bson:"assigned_users"`
	CreatedBy     string        `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// IsAssigned reports whether the user id appears in the project's assignment list.
func (p *Project) IsAssigned(userID string) bool {
	for _, id := range p.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment is a single entry in a project's comment thread. The author name is
// a snapshot taken at write time.
type Comment struct {
	ID         string    `json:"id" bson:"_id"`
	ProjectID  string    `json:"project_id" bson:"project_id"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	Text       string    `json:"text" bson:"text"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
