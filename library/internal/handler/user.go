package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

const userDeleted = "User deleted successfully"

// ListUsers godoc
// @Summary  list users
// @Tags     users
// @Produce  json
// @Success  200 {array} model.User
// @Router   /users/ [get]
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.librarySvc.ListUsers(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary  get user
// @Tags     users
// @Produce  json
// @Param    id path int true "user id"
// @Success  200 {object} model.User
// @Failure  404 {string} string
// @Router   /users/{id} [get]
func (h *Handler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.librarySvc.GetUser(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser godoc
// @Summary  create user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    user body model.User true "user"
// @Success  201 {object} model.User
// @Failure  400 {string} string
// @Failure  409 {string} string
// @Router   /users/ [post]
func (h *Handler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	var user model.User
	if err := bind(c, &user); err != nil {
		return err
	}
	ok, err := h.librarySvc.CheckUserParameters(ctx, user)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return h.httpError(errs.ErrEmailExists)
	}
	created, err := h.librarySvc.CreateUser(ctx, user)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateUser godoc
// @Summary  replace user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    id   path int        true "user id"
// @Param    user body model.User true "user"
// @Success  200 {object} model.User
// @Failure  404 {string} string
// @Failure  409 {string} string
// @Router   /users/{id} [put]
func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var user model.User
	if err := bind(c, &user); err != nil {
		return err
	}
	updated, err := h.librarySvc.UpdateUser(c.Request().Context(), id, user)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary  delete user
// @Tags     users
// @Produce  plain
// @Param    id path int true "user id"
// @Success  200 {string} string "User deleted successfully"
// @Failure  404 {string} string
// @Failure  409 {string} string
// @Router   /users/{id} [delete]
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ok, err := h.librarySvc.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	if !ok {
		return h.httpError(errs.ErrUserNotFound)
	}
	return c.String(http.StatusOK, userDeleted)
}
