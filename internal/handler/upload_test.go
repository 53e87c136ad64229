package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/storage"
)

type stubPresigner struct {
	gotName, gotType string
	err              error
}

func (s *stubPresigner) Presign(_ context.Context, filename, contentType string) (storage.Presigned, error) {
	s.gotName, s.gotType = filename, contentType
	if s.err != nil {
		return storage.Presigned{}, s.err
	}
	return storage.Presigned{
		UploadURL: "https://files.local/film-documents/" + filename + "?X-Amz-Signature=abc",
		FileURL:   "https://files.local/film-documents/" + filename,
		Object:    filename,
		ExpiresAt: time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC),
	}, nil
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func serve(h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec
}

func TestPresign(t *testing.T) {
	p := &stubPresigner{}
	h := NewUploadHandler(p, quietLog())

	rec := serve(h.Presign, "/uploads/presign?filename=+poster.PNG+&content_type=image/png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if p.gotName != "poster.PNG" || p.gotType != "image/png" {
		t.Errorf("presigner got %q %q", p.gotName, p.gotType)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["file_url"] != "https://files.local/film-documents/poster.PNG" {
		t.Errorf("body = %v", body)
	}
}

func TestPresign_Errors(t *testing.T) {
	if rec := serve(NewUploadHandler(&stubPresigner{}, quietLog()).Presign, "/uploads/presign"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing filename: %d", rec.Code)
	}

	failing := &stubPresigner{err: errors.New("minio: access denied for key AKIA")}
	rec := serve(NewUploadHandler(failing, quietLog()).Presign, "/uploads/presign?filename=a.pdf")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "AKIA") {
		t.Errorf("storage detail leaked: %s", rec.Body.String())
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	up := serve(Health(pingFunc(func(context.Context) error { return nil })), "/healthz")
	if up.Code != http.StatusOK || !strings.Contains(up.Body.String(), `"up"`) {
		t.Errorf("up: %d %s", up.Code, up.Body.String())
	}
	down := serve(Health(pingFunc(func(context.Context) error { return errors.New("refused") })), "/healthz")
	if down.Code != http.StatusServiceUnavailable || !strings.Contains(down.Body.String(), `"down"`) {
		t.Errorf("down: %d %s", down.Code, down.Body.String())
	}
}
