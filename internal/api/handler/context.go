package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyworks/project-system/internal/api/middleware"
	"github.com/agencyworks/project-system/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails with 401 when it is absent (route registered without the
// middleware, or the middleware did not run).
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
