package middleware

// identity.go exposes the authenticated identity stored by JWTAuth. On
// routes without JWTAuth the zero values are returned.

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user id, or 0.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(ctxUserID).(uint64)
	return id
}

// Username returns the authenticated username, or "".
func Username(c echo.Context) string {
	u, _ := c.Get(ctxUsername).(string)
	return u
}

// Role returns the authenticated role, or "".
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}
