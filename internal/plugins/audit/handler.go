package audit

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/middleware"
)

// Handler handles HTTP requests for the admin audit feed. Handlers are thin:
// bind request, call service, write the envelope.
type Handler struct {
	service AuditService
}

// NewHandler creates a new audit handler.
func NewHandler(service AuditService) *Handler {
	return &Handler{service: service}
}

// Recent returns the newest events across all accounts
// (GET /api/v1/admin/audit).
func (h *Handler) Recent(c echo.Context) error {
	page := pageParam(c)
	entries, total, err := h.service.Recent(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return respond(c, entries, total, page)
}

// UserHistory returns one account's events
// (GET /api/v1/admin/users/:id/audit).
func (h *Handler) UserHistory(c echo.Context) error {
	page := pageParam(c)
	entries, total, err := h.service.UserHistory(c.Request().Context(), c.Param("id"), page)
	if err != nil {
		return err
	}
	return respond(c, entries, total, page)
}

func pageParam(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return page
}

func respond(c echo.Context, entries []Entry, total, page int) error {
	if entries == nil {
		entries = []Entry{}
	}
	return middleware.OK(c, "", middleware.Fields{
		"entries":  entries,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
