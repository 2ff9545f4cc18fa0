package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

const (
	loanFinished  = "Loan finished successfully"
	loanCancelled = "Loan cancelled successfully"
)

// ListLoans godoc
// @Summary  list loans
// @Tags     loans
// @Produce  json
// @Success  200 {array} model.Loan
// @Router   /loans/ [get]
func (h *Handler) ListLoans(c echo.Context) error {
	loans, err := h.librarySvc.ListLoans(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

// GetLoan godoc
// @Summary  get loan
// @Tags     loans
// @Produce  json
// @Param    id path int true "loan id"
// @Success  200 {object} model.Loan
// @Failure  404 {string} string
// @Router   /loans/{id} [get]
func (h *Handler) GetLoan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	loan, err := h.librarySvc.GetLoan(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

// CreateLoan godoc
// @Summary  open loan
// @Description user and book are referenced by id: {"loanDate":"10-09-2024","user":{"id":1},"book":{"id":1}}
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    loan body model.Loan true "loan"
// @Success  201 {object} model.Loan
// @Failure  400 {string} string
// @Failure  404 {string} string
// @Failure  409 {string} string
// @Router   /loans/ [post]
func (h *Handler) CreateLoan(c echo.Context) error {
	ctx := c.Request().Context()
	var loan model.Loan
	if err := bind(c, &loan); err != nil {
		return err
	}
	if loan.UserID() <= 0 {
		return h.httpError(errs.Validation("User is required!"))
	}
	if loan.BookID() <= 0 {
		return h.httpError(errs.Validation("Book is required!"))
	}

	ok, err := h.librarySvc.CheckUser(ctx, loan)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return h.httpError(errs.ErrUserNotFound)
	}
	ok, err = h.librarySvc.CheckBook(ctx, loan)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return h.httpError(errs.ErrBookNotFound)
	}

	created, err := h.librarySvc.CreateLoan(ctx, loan)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// FinishLoan godoc
// @Summary  finish loan
// @Tags     loans
// @Produce  plain
// @Param    id path int true "loan id"
// @Success  200 {string} string "Loan finished successfully"
// @Failure  404 {string} string
// @Router   /loans/{id} [patch]
func (h *Handler) FinishLoan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.librarySvc.FinishLoan(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.String(http.StatusOK, loanFinished)
}

// DeleteLoan godoc
// @Summary  cancel loan
// @Tags     loans
// @Produce  plain
// @Param    id path int true "loan id"
// @Success  200 {string} string "Loan cancelled successfully"
// @Failure  404 {string} string
// @Router   /loans/{id} [delete]
func (h *Handler) DeleteLoan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ok, err := h.librarySvc.DeleteLoan(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return h.httpError(errs.ErrLoanNotFound)
	}
	return c.String(http.StatusOK, loanCancelled)
}
