package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/film-archive-api/internal/handler"
	"github.com/iliyamo/film-archive-api/internal/middleware"
	"github.com/iliyamo/film-archive-api/internal/model"
)

// Deps carries everything the routes need. Uploads is nil when object
// storage is not configured, and its route is then not registered. Cache
// and LoginLimit should be pass-through middleware when Redis is off.
type Deps struct {
	JWTSecret  string
	DB         handler.Pinger
	Auth       *handler.AuthHandler
	Films      *handler.FilmHandler
	Users      *handler.UserHandler
	Uploads    *handler.UploadHandler
	Cache      echo.MiddlewareFunc
	LoginLimit echo.MiddlewareFunc
}

// Register maps every endpoint onto e and allows cross-origin calls from any
// origin. Protection is attached per route so that unknown paths still
// answer 404 instead of 401.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	cache := orPass(d.Cache)
	authed := middleware.JWTAuth(d.JWTSecret)
	admin := []echo.MiddlewareFunc{authed, middleware.RequireRole(model.RoleAdmin)}

	e.GET("/healthz", handler.Health(d.DB))
	e.POST("/login", d.Auth.Login, orPass(d.LoginLimit))
	e.GET("/admin", handler.Admin, admin...)

	registerFilms(e, d.Films, cache, authed, admin)
	registerUsers(e, d.Users, admin)

	if d.Uploads != nil {
		e.GET("/uploads/presign", d.Uploads.Presign, admin...)
	}
}

func registerFilms(e *echo.Echo, f *handler.FilmHandler, cache, authed echo.MiddlewareFunc, admin []echo.MiddlewareFunc) {
	e.GET("/public/films", f.ListPublic, cache)
	e.GET("/films", f.List, cache)
	// static /films/full wins over /films/:id
	e.GET("/films/full", f.ListFull, authed)
	e.GET("/films/:id", f.Get, authed)

	e.POST("/films", f.Create, admin...)
	e.PUT("/films/:id", f.Update, admin...)
	e.DELETE("/films/:id", f.Delete, admin...)
}

func registerUsers(e *echo.Echo, u *handler.UserHandler, admin []echo.MiddlewareFunc) {
	e.GET("/users", u.List, admin...)
	e.POST("/users", u.Create, admin...)
	e.PUT("/users/:id", u.Update, admin...)
	e.DELETE("/users/:id", u.Delete, admin...)
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}
