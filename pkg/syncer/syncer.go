package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	"github.com/JaimeTPT/google-calendar-st-api/internal/utils"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/google"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/personal"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/roster"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/servicetitan"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Syncer drives the periodic mirror: refresh both rosters, match them, then
// reconcile every linked employee's personal events into non-job
// appointments.
type Syncer struct {
	directory  google.Directory
	calendar   google.CalendarClient
	dispatch   servicetitan.Client
	roster     roster.Service
	classifier *personal.Classifier
	snapshots  personal.SnapshotRepository
	clock      utils.Clock
	cfg        config.Sync
	status     *Status
	trigger    chan struct{}
}

func NewSyncer(
	directory google.Directory,
	calendar google.CalendarClient,
	dispatch servicetitan.Client,
	rosterService roster.Service,
	classifier *personal.Classifier,
	snapshots personal.SnapshotRepository,
	clock utils.Clock,
	cfg config.Sync,
) *Syncer {
	return &Syncer{
		directory:  directory,
		calendar:   calendar,
		dispatch:   dispatch,
		roster:     rosterService,
		classifier: classifier,
		snapshots:  snapshots,
		clock:      clock,
		cfg:        cfg,
		status:     NewStatus(),
		trigger:    make(chan struct{}, 1),
	}
}

func (s *Syncer) Status() *Status {
	return s.status
}

// TriggerNow requests an immediate cycle. A cycle already pending is enough;
// extra triggers are dropped.
func (s *Syncer) TriggerNow() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run executes cycles until the context is cancelled, either on the
// configured interval or when triggered through TriggerNow. A failed cycle is
// logged and the loop keeps going.
func (s *Syncer) Run(ctx context.Context) {
	log.Infof("Starting sync loop, interval %s", s.cfg.Interval)
	for {
		if err := s.Cycle(ctx); err != nil {
			log.Errorf("Sync cycle failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Info("Sync loop stopped")
			return
		case <-time.After(s.cfg.Interval):
		case <-s.trigger:
		}
	}
}

// Cycle runs one full pass. Roster refresh failures abort the cycle; once
// reconciliation starts, failures are contained per owner and per event so
// one bad account cannot stall the rest.
func (s *Syncer) Cycle(ctx context.Context) error {
	runId := uuid.New().String()
	logger := log.WithField("run", runId)
	report := CycleReport{RunId: runId, StartedAt: s.clock.Now()}
	defer func() {
		report.FinishedAt = s.clock.Now()
		s.status.Record(report)
	}()

	if err := s.dispatch.Authenticate(ctx); err != nil {
		report.Errors = append(report.Errors, err.Error())
		return fmt.Errorf("failed to authenticate with ServiceTitan: %w", err)
	}

	identities, err := s.directory.ListIdentities(ctx)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return fmt.Errorf("failed to list workspace identities: %w", err)
	}
	identities, err = s.roster.RefreshIdentities(ctx, identities)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return err
	}

	technicians, err := s.dispatch.ListTechnicians(ctx)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return fmt.Errorf("failed to list technicians: %w", err)
	}
	workers, err := s.roster.RefreshWorkers(ctx, toWorkers(technicians))
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return err
	}

	links, err := s.roster.RefreshLinks(ctx, identities, workers)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return err
	}
	logger.Infof("Reconciling %d linked accounts", len(links))

	owners := make([]string, 0, len(links))
	for owner := range links {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		report.Owners++
		counts := s.syncOwner(ctx, logger, links[owner])
		report.Created += counts.created
		report.Updated += counts.updated
		report.Deleted += counts.deleted
		report.Errors = append(report.Errors, counts.errors...)
	}

	logger.Infof("Cycle finished: %d created, %d updated, %d deleted, %d errors",
		report.Created, report.Updated, report.Deleted, len(report.Errors))
	return nil
}

type cycleCounts struct {
	created int
	updated int
	deleted int
	errors  []string
}

func (c *cycleCounts) fail(logger *log.Entry, format string, args ...any) {
	err := fmt.Errorf(format, args...)
	logger.Error(err)
	c.errors = append(c.errors, err.Error())
}

// syncOwner reconciles one linked employee. Inactive links are frozen: no
// calendar fetch, no dispatch calls, and the saved snapshot stays untouched.
// The snapshot is written once, after every planned action was attempted.
func (s *Syncer) syncOwner(ctx context.Context, logger *log.Entry, link roster.IdentityLink) cycleCounts {
	var counts cycleCounts
	ownerLogger := logger.WithField("owner", link.WorkspaceEmail)

	if !link.Active {
		ownerLogger.Debug("Link inactive, skipping")
		return counts
	}

	saved, err := s.snapshots.LoadSnapshot(ctx, link.WorkspaceEmail)
	if err != nil {
		counts.fail(ownerLogger, "failed to load snapshot for %s: %w", link.WorkspaceEmail, err)
		return counts
	}

	since := s.clock.Now().AddDate(0, 0, -s.cfg.LookbackDays)
	rawEvents, err := s.calendar.ListEventsSince(ctx, link.WorkspaceEmail, since)
	if err != nil {
		counts.fail(ownerLogger, "failed to list calendar events for %s: %w", link.WorkspaceEmail, err)
		return counts
	}

	current := s.classifier.Classify(link.WorkspaceEmail, rawEvents)
	plan := Reconcile(current, saved)
	if plan.Empty() {
		return counts
	}

	next := s.applyPlan(ctx, ownerLogger, link, plan, &counts)
	if err := s.snapshots.SaveSnapshot(ctx, link.WorkspaceEmail, next); err != nil {
		counts.fail(ownerLogger, "failed to save snapshot for %s: %w", link.WorkspaceEmail, err)
	}
	return counts
}

// applyPlan executes the plan against ServiceTitan and builds the snapshot
// that reflects what actually happened. A failed create is left out so the
// next cycle retries it as a create; a failed update restores the previous
// entry; a failed delete keeps the saved entry so the delete is retried.
//
// All-day events cannot be expressed as non-job appointments (those need a
// start instant and a duration), so they are folded into the snapshot
// without an appointment id and never sent to dispatch.
func (s *Syncer) applyPlan(ctx context.Context, logger *log.Entry, link roster.IdentityLink, plan Plan, counts *cycleCounts) []personal.Event {
	next := make([]personal.Event, 0, len(plan.Unchanged)+len(plan.Creates)+len(plan.Updates))
	next = append(next, plan.Unchanged...)

	for _, event := range plan.Creates {
		if event.AllDay {
			logger.Warnf("All-day event %q (%s) not mirrored to dispatch", event.Title, event.SourceEventId)
			event.AppointmentId = personal.AppointmentUnset
			next = append(next, event)
			continue
		}
		id, err := s.dispatch.CreateNonJobAppointment(ctx, appointmentFor(link, event))
		if err != nil {
			counts.fail(logger, "failed to create appointment for event %s: %w", event.SourceEventId, err)
			continue
		}
		event.AppointmentId = id
		next = append(next, event)
		counts.created++
	}

	for _, update := range plan.Updates {
		event := update.Event
		if event.AllDay {
			// The event flipped from a precise range to all-day; the old
			// appointment no longer represents it.
			logger.Warnf("Event %q (%s) became all-day, removing its appointment", event.Title, event.SourceEventId)
			err := s.dispatch.DeleteNonJobAppointment(ctx, update.Previous.AppointmentId)
			if err != nil && !errors.Is(err, servicetitan.ErrNotFound) {
				counts.fail(logger, "failed to delete appointment %s for event %s: %w",
					update.Previous.AppointmentId, event.SourceEventId, err)
				next = append(next, update.Previous)
				continue
			}
			event.AppointmentId = personal.AppointmentUnset
			next = append(next, event)
			counts.deleted++
			continue
		}

		id, err := s.dispatch.UpdateNonJobAppointment(ctx, event.AppointmentId, appointmentFor(link, event))
		if errors.Is(err, servicetitan.ErrNotFound) {
			// The appointment vanished on the dispatch side; dropping the
			// entry makes the next cycle recreate it.
			logger.Warnf("Appointment %s for event %s is gone, will recreate", event.AppointmentId, event.SourceEventId)
			continue
		}
		if err != nil {
			counts.fail(logger, "failed to update appointment %s for event %s: %w",
				event.AppointmentId, event.SourceEventId, err)
			next = append(next, update.Previous)
			continue
		}
		event.AppointmentId = id
		next = append(next, event)
		counts.updated++
	}

	for _, event := range plan.Deletes {
		if !event.Mirrored() {
			continue
		}
		err := s.dispatch.DeleteNonJobAppointment(ctx, event.AppointmentId)
		if err != nil && !errors.Is(err, servicetitan.ErrNotFound) {
			counts.fail(logger, "failed to delete appointment %s for event %s: %w",
				event.AppointmentId, event.SourceEventId, err)
			next = append(next, event)
			continue
		}
		counts.deleted++
	}

	return next
}

func appointmentFor(link roster.IdentityLink, event personal.Event) servicetitan.Appointment {
	summary := event.Description
	if summary == "" {
		summary = "Mirrored from " + event.OwnerEmail
	}
	return servicetitan.Appointment{
		TechnicianId: link.WorkerId,
		Start:        event.StartTime,
		Duration:     event.Duration(),
		Name:         event.Title,
		Summary:      summary,
	}
}

func toWorkers(technicians []servicetitan.Technician) []roster.Worker {
	workers := make([]roster.Worker, 0, len(technicians))
	for _, technician := range technicians {
		workers = append(workers, roster.Worker{
			Id:            technician.Id,
			UserAccountId: technician.UserId,
			Name:          technician.Name,
			Email:         technician.Email,
			Active:        technician.Active,
		})
	}
	return workers
}
