package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/config"
	"github.com/madspace-uw/madspace/internal/courses"
	"github.com/madspace-uw/madspace/internal/firebase"
	"github.com/madspace-uw/madspace/internal/history"
	"github.com/madspace-uw/madspace/internal/server/handlers"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"github.com/madspace-uw/madspace/internal/server/ratelimit"
	"github.com/madspace-uw/madspace/internal/server/router"
	"github.com/madspace-uw/madspace/internal/web"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const rateLimitCleanupInterval = time.Minute

// Server is the HTTP server plus the clients it must close on shutdown.
type Server struct {
	*http.Server

	db      *firebase.Firestore
	history *history.Store
	stop    context.CancelFunc
}

func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	ctx := context.Background()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := firebase.NewApp(ctx, cfg.FirebaseConfig, cfg.StorageBucket)
	if err != nil {
		return nil, err
	}

	db, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		return nil, err
	}

	auth, err := firebase.NewAuth(ctx, app)
	if err != nil {
		db.Close()
		return nil, err
	}

	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		db.Close()
		return nil, err
	}

	templates, err := web.Templates()
	if err != nil {
		db.Close()
		store.Close()
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	cleanupCtx, stop := context.WithCancel(context.Background())
	limiter := ratelimit.NewLimiter()
	limiter.StartCleanup(cleanupCtx, rateLimitCleanupInterval)

	mw := middleware.NewManager(auth, cache.New(cfg.SessionCacheTTL, 2*cfg.SessionCacheTTL), limiter, log, middleware.Options{
		SessionCookie:     cfg.SessionCookie,
		RateLimit:         cfg.RateLimit,
		RateWindowSeconds: cfg.RateWindowSeconds,
	})

	catalog := courses.NewService(db, cfg.CatalogCacheTTL, cfg.StatsCacheTTL, log)

	handler := handlers.New(catalog, db, store, auth, mw, log, handlers.Options{
		SessionCookie: cfg.SessionCookie,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.IsProduction(),
		Firebase: handlers.FirebaseWeb{
			APIKey:     cfg.FirebaseAPIKey,
			AuthDomain: cfg.FirebaseAuthDomain,
			ProjectID:  cfg.FirebaseProjectID,
		},
	})

	log.Info("server configured",
		zap.Int("port", cfg.Port),
		zap.String("history_db", cfg.HistoryDB),
		zap.Int("rate_limit", cfg.RateLimit),
		zap.Int("rate_window_seconds", cfg.RateWindowSeconds),
	)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router.New(handler, mw, templates),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		db:      db,
		history: store,
		stop:    stop,
	}, nil
}

// Close releases the Firestore client and the history database. Call it
// after Shutdown.
func (s *Server) Close() error {
	s.stop()
	return errors.Join(s.history.Close(), s.db.Close())
}
