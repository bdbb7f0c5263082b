package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyworks/project-system/internal/api/metrics"
	"github.com/agencyworks/project-system/internal/core/authz"
)

// Permission rejects requests whose principal does not pass the check for the
// action. Rank-0 principals pass any action. This is a route-level fast gate;
// the services apply the same predicate again with entity context.
func Permission(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !authz.Check(p, action) {
				metrics.AuthzDenialsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
