package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/api/metrics"
	"github.com/agencyworks/project-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// the stable, enumerable error kind clients can branch on; Error is the
// human-readable message.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps engine error kinds to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"code": "...", "error": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		if resp.Code == "forbidden" || resp.Code == "forbidden_transition" {
			metrics.AuthzDenialsTotal.WithLabelValues(resp.Code).Inc()
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Code: "http_error", Error: fmt.Sprintf("%v", he.Message)}
	}

	code := domain.ErrorCode(err)
	switch code {
	case "validation_error":
		return http.StatusBadRequest, errorResponse{Code: code, Error: err.Error()}
	case "not_found":
		return http.StatusNotFound, errorResponse{Code: code, Error: err.Error()}
	case "conflict":
		return http.StatusConflict, errorResponse{Code: code, Error: err.Error()}
	case "forbidden":
		return http.StatusForbidden, errorResponse{Code: code, Error: "access forbidden"}
	case "forbidden_transition":
		return http.StatusUnprocessableEntity, errorResponse{Code: code, Error: err.Error()}
	case "state_error":
		return http.StatusConflict, errorResponse{Code: code, Error: err.Error()}
	case "invalid_credentials":
		return http.StatusUnauthorized, errorResponse{Code: code, Error: "invalid credentials"}
	case "unavailable":
		// Partial approvals carry effect flags worth logging for reconciliation.
		var partial *domain.PartialApprovalError
		if errors.As(err, &partial) {
			log.Error().
				Str("review_id", partial.ReviewID).
				Bool("review_updated", partial.ReviewUpdated).
				Bool("project_updated", partial.ProjectUpdated).
				Bool("ledger_appended", partial.LedgerAppended).
				Err(partial.Cause).
				Msg("approval partially applied")
		}
		return http.StatusServiceUnavailable, errorResponse{Code: code, Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Code: "internal", Error: "internal server error"}
}
