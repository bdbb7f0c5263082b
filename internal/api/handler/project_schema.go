package handler

import "time"

// --- Request / Response types ---

type createProjectRequest struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	DueDate       time.Time `json:"due_date" validate:"required"`
	AssignedUsers []string  `json:"assigned_users" validate:"required,min=1"`
}

type transitionProjectRequest struct {
	Status string `json:"status" validate:"required"`
}

type addCommentRequest struct {
	Text string `json:"text" validate:"required"`
}
