package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

const bookDeleted = "Book deleted successfully"

// ListBooks godoc
// @Summary  list books
// @Tags     books
// @Produce  json
// @Success  200 {array} model.Book
// @Router   /books/ [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.librarySvc.ListBooks(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary  get book
// @Tags     books
// @Produce  json
// @Param    id path int true "book id"
// @Success  200 {object} model.Book
// @Failure  404 {string} string
// @Router   /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.librarySvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary  create book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    book body model.Book true "book"
// @Success  201 {object} model.Book
// @Failure  400 {string} string
// @Router   /books/ [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var book model.Book
	if err := bind(c, &book); err != nil {
		return err
	}
	created, err := h.librarySvc.CreateBook(c.Request().Context(), book)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateBook godoc
// @Summary  replace book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    id   path int        true "book id"
// @Param    book body model.Book true "book"
// @Success  200 {object} model.Book
// @Failure  404 {string} string
// @Router   /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var book model.Book
	if err := bind(c, &book); err != nil {
		return err
	}
	updated, err := h.librarySvc.UpdateBook(c.Request().Context(), id, book)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteBook godoc
// @Summary  delete book
// @Tags     books
// @Produce  plain
// @Param    id path int true "book id"
// @Success  200 {string} string "Book deleted successfully"
// @Failure  404 {string} string
// @Failure  409 {string} string
// @Router   /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ok, err := h.librarySvc.DeleteBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return h.httpError(errs.ErrBookNotFound)
	}
	return c.String(http.StatusOK, bookDeleted)
}
