package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-archive-api/internal/middleware"
)

// Admin is a smoke test for admin tokens.
func Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"msg": "Welcome, " + middleware.Username(c) + "! You have admin access."})
}
