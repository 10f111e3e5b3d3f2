package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/crossfun/backend/internal/config"
	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/handlers"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/middleware"
	ws "github.com/crossfun/backend/internal/websocket"
	"github.com/crossfun/backend/pkg/auth"
)

// Server wires config, stores, the chat hub and the HTTP router together.
type Server struct {
	cfg    *config.Config
	log    *logger.Logger
	router *gin.Engine
	db     *database.Database
	redis  *redis.Client
	hub    *ws.Hub
	http   *http.Server
}

// New connects Postgres and Redis and builds the full handler chain.
// Connection failures are returned, not fatal; the caller decides.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	db := database.NewDatabase(nil)
	if err := db.Connect(cfg.DatabaseURL); err != nil {
		return nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	blacklist := middleware.NewRedisBlacklist(rdb)
	hub := ws.NewHub(logger.New("hub"))

	authH := handlers.NewAuthHandler(db, jwtMgr, blacklist, log)
	tokenH := handlers.NewTokenHandler(db, log)
	txH := handlers.NewTransactionHandler(db, log)
	chatH := handlers.NewChatHandler(db, hub, log)
	userH := handlers.NewUserHandler(db, log)
	analyticsH := handlers.NewAnalyticsHandler(db, log)
	uploadH := handlers.NewUploadHandler(cfg, log)
	streamH := handlers.NewStreamHandler(hub, log, cfg.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, cfg, jwtMgr, blacklist, db,
		authH, tokenH, txH, chatH, userH, analyticsH, uploadH, streamH)

	return &Server{
		cfg:    cfg,
		log:    log,
		router: router,
		db:     db,
		redis:  rdb,
		hub:    hub,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then drains connections and stops the hub.
func (s *Server) Run() error {
	go s.hub.Run()

	s.http = &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("port", s.cfg.Port).Msg("server starting")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.hub.Stop()
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	return s.redis.Close()
}
