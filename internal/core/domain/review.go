package domain

import "time"

// ReviewStatus represents the state of a review request.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Terminal reports whether the status is immutable once reached.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// ReviewRequest links exactly one project to a pending reviewer decision.
// At most one pending request may exist per project; terminal requests never
// revert. The project title is denormalized at submission time so the record
// stays accurate even if the project is later renamed or deleted.
type ReviewRequest struct {
	ID              string       `json:"id" bson:"_id"`
	ProjectID       string       `json:"project_id" bson:"project_id"`
	ProjectTitle    string       `json:"project_title" bson:"project_title"`
	Status          ReviewStatus `json:"status" bson:"status"`
	SubmittedBy     string       `json:"submitted_by" bson:"submitted_by"`
	SubmittedByName string       `json:"submitted_by_name" bson:"submitted_by_name"`
	ReviewedBy      string       `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedByName  string       `json:"reviewed_by_name,omitempty" bson:"reviewed_by_name,omitempty"`
	Comments        string       `json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updated_at"`
}
