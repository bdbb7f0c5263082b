package handler

type submitReviewRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
}

type resolveReviewRequest struct {
	Comment string `json:"comment"`
}
