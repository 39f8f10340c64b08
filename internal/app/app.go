package app

import (
	"context"
	"net/http"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	"github.com/JaimeTPT/google-calendar-st-api/internal/database"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, sync loop, router, and server
// lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// DB + migrations
	pool, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	// pool is closed when the process exits.
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (clients, services, handlers...)
	deps, err := BuildDependencies(pool, cfg)
	if err != nil {
		return nil, err
	}

	// Middleware chain
	SetupMiddleware(r)

	// Routes
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.HTTP.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

// Run starts the sync loop and the HTTP server, and blocks until the server
// stops.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.deps.Syncer.Run(ctx)

	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
