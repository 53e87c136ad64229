package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/film-archive-api/internal/config"
	"github.com/iliyamo/film-archive-api/internal/database"
	"github.com/iliyamo/film-archive-api/internal/handler"
	"github.com/iliyamo/film-archive-api/internal/logger"
	"github.com/iliyamo/film-archive-api/internal/middleware"
	"github.com/iliyamo/film-archive-api/internal/repository"
	"github.com/iliyamo/film-archive-api/internal/router"
	"github.com/iliyamo/film-archive-api/internal/service"
	"github.com/iliyamo/film-archive-api/internal/storage"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel, cfg.Debug())

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer func() { _ = db.Close() }()

	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("schema migration failed")
		}
		log.Info("schema migrated")
	}

	films := repository.NewFilmRepo(db)
	users := repository.NewUserRepo(db)
	bootstrapAdmin(cfg, users, log)

	// Redis is optional; without it the cache and the login limit pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, caching and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}
	cacheCfg := config.LoadCacheConfig()
	purger := middleware.NewCachePurger(cacheCfg, rdb)

	events := service.NewFilmEventPublisher(config.LoadQueueConfig(), log)
	if events == nil {
		log.Info("RABBITMQ_URL not set, film events disabled")
	}

	deps := router.Deps{
		JWTSecret:  cfg.JWTSecret,
		DB:         db,
		Auth:       handler.NewAuthHandler(cfg, users, log),
		Films:      handler.NewFilmHandler(films, events, purger, config.LoadCitationConfig(), cfg.RequestTimeout, log),
		Users:      handler.NewUserHandler(users, cfg.BcryptCost, log),
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		LoginLimit: middleware.NewFixedWindowLimit(config.LoadRateLimitConfig(), rdb, log),
	}
	if up := newUploads(log); up != nil {
		deps.Uploads = handler.NewUploadHandler(up, log)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	router.Register(e, deps)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// loadEnvFiles reads .env.<APP_ENV> and then .env. Variables already set in
// the process environment are never overwritten.
func loadEnvFiles() {
	if env := os.Getenv("APP_ENV"); env != "" {
		_ = godotenv.Load(".env." + env)
	}
	_ = godotenv.Load()
}

func bootstrapAdmin(cfg config.Config, users *repository.UserRepo, log *logrus.Logger) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("bootstrap admin")
	}
	if created {
		log.WithField("username", cfg.AdminUsername).Info("bootstrap admin created")
	}
}

// newUploads returns nil when MinIO is not configured or unusable.
func newUploads(log *logrus.Logger) *storage.Uploads {
	scfg := config.LoadStorageConfig()
	if !scfg.Configured() {
		log.Info("MINIO_ENDPOINT not set, presigned uploads disabled")
		return nil
	}
	up, err := storage.NewUploads(scfg, log)
	if err != nil {
		log.WithError(err).Warn("object storage disabled")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := up.EnsureBucket(ctx, scfg.Region); err != nil {
		log.WithError(err).WithField("bucket", scfg.Bucket).Warn("ensure bucket failed")
	}
	return up
}
