package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/packwise/carton-packer/internal/api"
	"github.com/packwise/carton-packer/internal/config"
	"github.com/packwise/carton-packer/internal/packing"
	"github.com/packwise/carton-packer/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage   storage.Storage
	allocator packing.Allocator
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetCartons(cfg.InitialCartons); err != nil {
		return nil, fmt.Errorf("failed to apply initial carton catalog: %w", err)
	}

	alloc := packing.New()
	handler := api.NewHandler(alloc, store,
		api.WithClearanceBuffer(cfg.ClearanceBuffer),
	)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithAllowedOrigins(cfg.AllowedOrigins),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, router)

	return &App{
		storage:   store,
		allocator: alloc,
		handler:   handler,
		router:    router,
		logger:    logger,
		server:    server,
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
