package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SearchBooks godoc
// @Summary  search the external catalog by title
// @Tags     books
// @Produce  json
// @Param    title query string true "book title"
// @Success  200 {object} object "catalog volumes listing"
// @Failure  400 {string} string
// @Failure  404 {string} string
// @Failure  503 {string} string
// @Router   /books/api/ [get]
func (h *Handler) SearchBooks(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	data, err := h.catalogSvc.SearchByTitle(c.Request().Context(), title)
	if err != nil {
		return h.httpError(err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}
