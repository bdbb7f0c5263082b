package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyworks/project-system/internal/api/metrics"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// ReviewHandler handles HTTP requests for the review workflow.
type ReviewHandler struct {
	reviews ports.ReviewService
}

func NewReviewHandler(reviews ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Submit handles POST /v1/reviews. At most one pending request may exist per
// project.
//
// @Summary      Submit a project for review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitReviewRequest  true  "Project to review"
// @Success      201   {object}  domain.ReviewRequest
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/reviews [post]
func (h *ReviewHandler) Submit(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req submitReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviews.Submit(c.Request().Context(), p, req.ProjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// List handles GET /v1/reviews. Principals without view_reviews only see
// their own submissions. An optional status query narrows the result.
//
// @Summary      List review requests
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (pending, approved, rejected)"
// @Success      200     {array}   domain.ReviewRequest
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /v1/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	reviews, err := h.reviews.List(c.Request().Context(), p, domain.ReviewStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// Approve handles POST /v1/reviews/:id/approve. On success the review is
// resolved, the project moves to approved, and a ledger entry is appended.
//
// @Summary      Approve a review request
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Review id"
// @Param        body  body      resolveReviewRequest  false  "Reviewer comment"
// @Success      200   {object}  domain.ReviewRequest
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /v1/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req resolveReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	review, err := h.reviews.Approve(c.Request().Context(), p, c.Param("id"), req.Comment)
	if err != nil {
		return err
	}

	metrics.ReviewsResolvedTotal.WithLabelValues(string(domain.ReviewApproved)).Inc()
	metrics.TransitionsTotal.WithLabelValues(string(domain.ProjectApproved)).Inc()
	metrics.LedgerEntriesTotal.Inc()
	return c.JSON(http.StatusOK, review)
}

// Reject handles POST /v1/reviews/:id/reject. The project keeps its current
// status.
//
// @Summary      Reject a review request
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Review id"
// @Param        body  body      resolveReviewRequest  false  "Reviewer comment"
// @Success      200   {object}  domain.ReviewRequest
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req resolveReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	review, err := h.reviews.Reject(c.Request().Context(), p, c.Param("id"), req.Comment)
	if err != nil {
		return err
	}

	metrics.ReviewsResolvedTotal.WithLabelValues(string(domain.ReviewRejected)).Inc()
	return c.JSON(http.StatusOK, review)
}
