package syncer

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/internal/rest"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/personal"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/roster"
	"github.com/emersion/go-ical"
	"github.com/gorilla/mux"
)

type Handler struct {
	syncer    *Syncer
	links     roster.Repository
	snapshots personal.SnapshotRepository
}

func NewHandler(syncer *Syncer, links roster.Repository, snapshots personal.SnapshotRepository) *Handler {
	return &Handler{syncer: syncer, links: links, snapshots: snapshots}
}

type StatusDTO struct {
	Cycles  int         `json:"cycles"`
	LastRun CycleReport `json:"lastRun"`
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	report, cycles := h.syncer.Status().Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(StatusDTO{Cycles: cycles, LastRun: report}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// TriggerSync schedules a cycle outside the regular interval. The cycle runs
// asynchronously; the status endpoint reports its outcome.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	h.syncer.TriggerNow()
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) GetLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.ListLinks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]roster.IdentityLink, 0, len(links))
	for _, link := range links {
		dtos = append(dtos, link)
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].WorkspaceEmail < dtos[j].WorkspaceEmail })

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if email == "" {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Missing email",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	events, err := h.snapshots.LoadSnapshot(r.Context(), email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []personal.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetSnapshotICal renders an owner's mirrored events as an iCalendar feed, so
// the dispatch-side view of someone's personal time can be subscribed to.
func (h *Handler) GetSnapshotICal(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	events, err := h.snapshots.LoadSnapshot(r.Context(), email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cal, err := snapshotToICal(events)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func snapshotToICal(events []personal.Event) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Google Calendar ST API//EN")

	for _, event := range events {
		vevent := ical.NewComponent(ical.CompEvent)
		vevent.Props.SetText(ical.PropUID, event.SourceEventId)
		vevent.Props.SetText(ical.PropSummary, event.Title)
		if event.Description != "" {
			vevent.Props.SetText(ical.PropDescription, event.Description)
		}
		if !event.UpdatedAt.IsZero() {
			vevent.Props.SetDateTime(ical.PropDateTimeStamp, event.UpdatedAt)
		}

		if event.AllDay {
			startDate, err := time.Parse("2006-01-02", event.StartDate)
			if err != nil {
				return nil, err
			}
			endDate, err := time.Parse("2006-01-02", event.EndDate)
			if err != nil {
				return nil, err
			}
			dtstart := ical.NewProp(ical.PropDateTimeStart)
			dtstart.SetDate(startDate)
			vevent.Props.Set(dtstart)
			dtend := ical.NewProp(ical.PropDateTimeEnd)
			dtend.SetDate(endDate)
			vevent.Props.Set(dtend)
		} else {
			vevent.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime)
			vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime)
		}

		cal.Children = append(cal.Children, vevent)
	}
	return cal, nil
}
