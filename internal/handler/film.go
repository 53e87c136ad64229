package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/config"
	"github.com/iliyamo/film-archive-api/internal/middleware"
	"github.com/iliyamo/film-archive-api/internal/model"
	"github.com/iliyamo/film-archive-api/internal/queue"
	"github.com/iliyamo/film-archive-api/internal/repository"
)

// FilmStore is the film aggregate repository as seen by the handlers.
type FilmStore interface {
	Create(ctx context.Context, in *model.FilmInput) (uint64, error)
	Update(ctx context.Context, id uint64, in *model.FilmInput) error
	SoftDelete(ctx context.Context, id uint64) error
	GetFull(ctx context.Context, id uint64) (*model.FilmAggregate, error)
	ListPublic(ctx context.Context) ([]model.FilmSummary, error)
	ListLive(ctx context.Context) ([]model.Film, error)
	ListAggregated(ctx context.Context) ([]model.FilmDigest, error)
}

// EventPublisher receives a notification after every committed film write.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.FilmChangedEvent) error
}

// CachePurger drops cached film listings.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// FilmHandler serves the film catalog. Events and Cache may be nil.
type FilmHandler struct {
	Films    FilmStore
	Events   EventPublisher
	Cache    CachePurger
	Citation config.CitationConfig
	Timeout  time.Duration
	Log      logrus.FieldLogger

	now func() time.Time
}

func NewFilmHandler(films FilmStore, events EventPublisher, cache CachePurger, cite config.CitationConfig, timeout time.Duration, log logrus.FieldLogger) *FilmHandler {
	return &FilmHandler{
		Films:    films,
		Events:   events,
		Cache:    cache,
		Citation: cite,
		Timeout:  timeout,
		Log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListPublic handles GET /public/films.
func (h *FilmHandler) ListPublic(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	films, err := h.Films.ListPublic(ctx)
	if err != nil {
		return internalError(c, h.Log, err, "list public films", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"films": films})
}

// List handles GET /films.
func (h *FilmHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	films, err := h.Films.ListLive(ctx)
	if err != nil {
		return internalError(c, h.Log, err, "list films", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"films": films})
}

// ListFull handles GET /films/full. Every film carries a citation dated
// today.
func (h *FilmHandler) ListFull(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	films, err := h.Films.ListAggregated(ctx)
	if err != nil {
		return internalError(c, h.Log, err, "list aggregated films", nil)
	}
	today := h.now()
	for i := range films {
		films[i].Reference = model.Citation(films[i].Title, h.Citation.Publisher, h.Citation.URL, today)
	}
	return c.JSON(http.StatusOK, echo.Map{"films": films})
}

// Get handles GET /films/:id.
func (h *FilmHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid film id")
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	agg, err := h.Films.GetFull(ctx, id)
	if errors.Is(err, repository.ErrFilmNotFound) {
		return notFound(c, "film not found")
	}
	if err != nil {
		return internalError(c, h.Log, err, "get film", logrus.Fields{"film_id": id})
	}
	return c.JSON(http.StatusOK, agg)
}

// Create handles POST /films.
func (h *FilmHandler) Create(c echo.Context) error {
	in, err := h.bindInput(c)
	if err != nil {
		return err
	}
	if in == nil {
		return nil
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	id, err := h.Films.Create(ctx, in)
	if err != nil {
		return internalError(c, h.Log, err, "create film", logrus.Fields{"title": *in.Title})
	}
	h.afterWrite(c, queue.ActionCreated, id, *in.Title)
	return c.JSON(http.StatusCreated, echo.Map{"film_id": id, "msg": "Film created successfully"})
}

// Update handles PUT /films/:id. The document replaces the stored aggregate.
func (h *FilmHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid film id")
	}
	in, err := h.bindInput(c)
	if err != nil {
		return err
	}
	if in == nil {
		return nil
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	err = h.Films.Update(ctx, id, in)
	if errors.Is(err, repository.ErrFilmNotFound) {
		return notFound(c, "film not found")
	}
	if err != nil {
		return internalError(c, h.Log, err, "update film", logrus.Fields{"film_id": id})
	}
	h.afterWrite(c, queue.ActionUpdated, id, *in.Title)
	return c.JSON(http.StatusOK, echo.Map{"msg": "Film updated successfully"})
}

// Delete handles DELETE /films/:id.
func (h *FilmHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid film id")
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()

	err := h.Films.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrFilmNotFound) {
		return notFound(c, "film not found or already deleted")
	}
	if err != nil {
		return internalError(c, h.Log, err, "delete film", logrus.Fields{"film_id": id})
	}
	h.afterWrite(c, queue.ActionDeleted, id, "")
	return c.JSON(http.StatusOK, echo.Map{"msg": "Film and dependent records soft deleted"})
}

// bindInput decodes and validates the request body. A nil input with a nil
// error means the 400 response has already been written.
func (h *FilmHandler) bindInput(c echo.Context) (*model.FilmInput, error) {
	var in model.FilmInput
	if err := c.Bind(&in); err != nil {
		return nil, badRequest(c, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		if resp, ok := invalid(c, err); ok {
			return nil, resp
		}
		return nil, badRequest(c, err.Error())
	}
	return &in, nil
}

// afterWrite runs once the transaction has committed. Its failures are
// logged and never reach the client.
func (h *FilmHandler) afterWrite(c echo.Context, action string, id uint64, title string) {
	ctx := context.WithoutCancel(c.Request().Context())
	fields := logrus.Fields{"film_id": id, "action": action}

	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			h.Log.WithError(err).WithFields(fields).Warn("film cache purge failed")
		}
	}
	if h.Events != nil {
		ev := queue.FilmChangedEvent{
			Action:     action,
			FilmID:     id,
			Title:      title,
			ActorID:    middleware.UserID(c),
			Actor:      middleware.Username(c),
			OccurredAt: h.now().Format(time.RFC3339),
		}
		if err := h.Events.Publish(ctx, ev); err != nil {
			h.Log.WithError(err).WithFields(fields).Warn("film event publish failed")
		}
	}
	h.Log.WithFields(fields).Info("film " + action)
}
