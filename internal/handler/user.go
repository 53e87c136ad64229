package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/model"
	"github.com/iliyamo/film-archive-api/internal/repository"
	"github.com/iliyamo/film-archive-api/internal/utils"
)

// UserHandler manages API accounts. All routes are admin only.
type UserHandler struct {
	Users      UserStore
	BcryptCost int
	Log        logrus.FieldLogger
}

func NewUserHandler(users UserStore, cost int, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{Users: users, BcryptCost: cost, Log: log}
}

type userReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// List handles GET /users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, 0)
	defer cancel()

	users, err := h.Users.ListNonAdmin(ctx)
	if err != nil {
		return internalError(c, h.Log, err, "list users", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Create handles POST /users. Role defaults to reader.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return badRequest(c, "password must be at most 72 bytes")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleReader
	}
	if !model.ValidRole(role) {
		return badRequest(c, "role must be admin or reader")
	}

	ctx, cancel := withTimeout(c, 0)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Username, req.Password, role, h.BcryptCost)
	if errors.Is(err, repository.ErrUsernameExists) {
		return badRequest(c, "username already exists")
	}
	if err != nil {
		return internalError(c, h.Log, err, "create user", logrus.Fields{"username": req.Username})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user_id": id, "msg": "User added successfully"})
}

// Update handles PUT /users/:id, replacing username and password.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return badRequest(c, "password must be at most 72 bytes")
	}

	ctx, cancel := withTimeout(c, 0)
	defer cancel()

	err := h.Users.Update(ctx, id, req.Username, req.Password, h.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrUsernameExists):
		return badRequest(c, "username already exists")
	case errors.Is(err, repository.ErrUserNotFound):
		return notFound(c, "user not found or already deleted")
	case err != nil:
		return internalError(c, h.Log, err, "update user", logrus.Fields{"user_id": id})
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "User updated successfully"})
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := withTimeout(c, 0)
	defer cancel()

	err := h.Users.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return notFound(c, "user not found or already deleted")
	}
	if err != nil {
		return internalError(c, h.Log, err, "delete user", logrus.Fields{"user_id": id})
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "User soft deleted successfully"})
}
