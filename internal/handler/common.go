package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/model"
)

const defaultTimeout = 5 * time.Second

// errInternal is the only text a client sees for a storage failure.
const errInternal = "internal server error"

func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

// invalid answers 400 for a *model.ValidationError, listing the offending
// fields. ok is false when err is some other error.
func invalid(c echo.Context, err error) (handled error, ok bool) {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return nil, false
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input", "fields": verr.Fields}), true
}

// internalError logs err with fields and answers 500.
func internalError(c echo.Context, log logrus.FieldLogger, err error, msg string, fields logrus.Fields) error {
	log.WithError(err).
		WithFields(fields).
		WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Error(msg)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": errInternal})
}
