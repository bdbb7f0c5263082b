package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyworks/project-system/internal/core/ports"
)

// LedgerHandler handles HTTP requests for the approved-project ledger.
type LedgerHandler struct {
	ledger ports.LedgerService
}

func NewLedgerHandler(ledger ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// List handles GET /v1/ledger with optional title and month filters.
//
// @Summary      List approved-project entries
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        title  query     string  false  "Case-insensitive title substring"
// @Param        month  query     string  false  "Approval month, YYYY-MM"
// @Success      200    {array}   domain.ApprovedProjectEntry
// @Failure      400    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /v1/ledger [get]
func (h *LedgerHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	entries, err := h.ledger.List(c.Request().Context(), p, ports.LedgerFilter{
		TitleContains: c.QueryParam("title"),
		Month:         c.QueryParam("month"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Remove handles DELETE /v1/ledger/:id. Pruning an entry never touches the
// project or review it records.
//
// @Summary      Remove a ledger entry
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/ledger/{id} [delete]
func (h *LedgerHandler) Remove(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.ledger.Remove(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
