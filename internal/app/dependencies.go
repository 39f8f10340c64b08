package app

import (
	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	"github.com/JaimeTPT/google-calendar-st-api/internal/utils"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/google"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/personal"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/roster"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/servicetitan"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/syncer"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	GoogleAuth     *google.Auth
	Directory      google.Directory
	CalendarClient google.CalendarClient

	DispatchClient servicetitan.Client

	RosterRepo    roster.Repository
	RosterService roster.Service

	SnapshotRepo personal.SnapshotRepository
	Classifier   *personal.Classifier

	Syncer      *syncer.Syncer
	SyncHandler *syncer.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(pool *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	googleAuth, err := google.NewAuth(cfg.Google)
	if err != nil {
		return nil, err
	}
	deps.GoogleAuth = googleAuth
	deps.Directory = google.NewDirectory(googleAuth, cfg.Google)
	deps.CalendarClient = google.NewCalendarClient(googleAuth)

	deps.DispatchClient = servicetitan.NewClient(cfg.ServiceTitan)

	deps.RosterRepo = roster.NewRepository(pool)
	deps.RosterService = roster.NewService(deps.RosterRepo)

	deps.SnapshotRepo = personal.NewSnapshotRepository(pool)
	deps.Classifier = personal.NewClassifier(cfg.Sync.Keywords)

	deps.Clock = &utils.SystemClock{}
	deps.Syncer = syncer.NewSyncer(
		deps.Directory,
		deps.CalendarClient,
		deps.DispatchClient,
		deps.RosterService,
		deps.Classifier,
		deps.SnapshotRepo,
		deps.Clock,
		cfg.Sync,
	)
	deps.SyncHandler = syncer.NewHandler(deps.Syncer, deps.RosterRepo, deps.SnapshotRepo)

	return deps, nil
}
