package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/storage"
)

// Presigner issues upload slots for document files.
type Presigner interface {
	Presign(ctx context.Context, filename, contentType string) (storage.Presigned, error)
}

type UploadHandler struct {
	Uploads Presigner
	Log     logrus.FieldLogger
}

func NewUploadHandler(u Presigner, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{Uploads: u, Log: log}
}

// Presign handles GET /uploads/presign?filename=&content_type=.
func (h *UploadHandler) Presign(c echo.Context) error {
	filename := strings.TrimSpace(c.QueryParam("filename"))
	if filename == "" {
		return badRequest(c, "filename is required")
	}
	p, err := h.Uploads.Presign(c.Request().Context(), filename, strings.TrimSpace(c.QueryParam("content_type")))
	if err != nil {
		return internalError(c, h.Log, err, "presign upload", logrus.Fields{"filename": filename})
	}
	return c.JSON(http.StatusOK, p)
}
