package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/config"
	"github.com/iliyamo/film-archive-api/internal/model"
	"github.com/iliyamo/film-archive-api/internal/repository"
	"github.com/iliyamo/film-archive-api/internal/utils"
)

// UserStore is the credential store used by login and user management.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	ListNonAdmin(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, username, password, role string, cost int) (uint64, error)
	Update(ctx context.Context, id uint64, username, password string, cost int) error
	SoftDelete(ctx context.Context, id uint64) error
}

// AuthHandler bundles dependencies for the login endpoint.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Log   logrus.FieldLogger
}

func NewAuthHandler(cfg config.Config, users UserStore, log logrus.FieldLogger) *AuthHandler {
	// builds the dummy hash for unknown usernames up front
	utils.SpendVerify("", cfg.BcryptCost)
	return &AuthHandler{Cfg: cfg, Users: users, Log: log}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
}

// Login exchanges username and password for a signed access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}

	ctx, cancel := withTimeout(c, h.Cfg.RequestTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrUserNotFound) {
		utils.SpendVerify(req.Password, h.Cfg.BcryptCost)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return internalError(c, h.Log, err, "login lookup", logrus.Fields{"username": req.Username})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, u.Role, h.Cfg.AccessTTL)
	if err != nil {
		return internalError(c, h.Log, err, "sign access token", logrus.Fields{"user_id": u.ID})
	}
	return c.JSON(http.StatusOK, loginResp{AccessToken: tok.Token, ExpiresAt: tok.Exp, Role: u.Role})
}
