package syncer

import (
	"testing"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/pkg/personal"
	"github.com/stretchr/testify/assert"
)

func timedEvent(sourceId string, title string, start time.Time, duration time.Duration) personal.Event {
	return personal.Event{
		SourceEventId: sourceId,
		OwnerEmail:    "jo@co.com",
		Title:         title,
		StartTime:     start,
		EndTime:       start.Add(duration),
		Timezone:      "UTC",
	}
}

func allDayEvent(sourceId string, title string, startDate string, endDate string) personal.Event {
	return personal.Event{
		SourceEventId: sourceId,
		OwnerEmail:    "jo@co.com",
		Title:         title,
		AllDay:        true,
		StartDate:     startDate,
		EndDate:       endDate,
	}
}

func mirrored(event personal.Event, appointmentId string) personal.Event {
	event.AppointmentId = appointmentId
	return event
}

func TestReconcile(t *testing.T) {
	baseTime := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("new events become creates", func(t *testing.T) {
		current := []personal.Event{timedEvent("e1", "Unavailable", baseTime, time.Hour)}

		plan := Reconcile(current, nil)

		assert.Len(t, plan.Creates, 1)
		assert.Empty(t, plan.Updates)
		assert.Empty(t, plan.Deletes)
		assert.Empty(t, plan.Unchanged)
		assert.Equal(t, "e1", plan.Creates[0].SourceEventId)
	})

	t.Run("shifted event becomes an update carrying the appointment id", func(t *testing.T) {
		saved := []personal.Event{mirrored(timedEvent("e1", "Unavailable", baseTime, time.Hour), "501")}
		current := []personal.Event{
			timedEvent("e1", "Unavailable", baseTime.Add(time.Hour), time.Hour),
			timedEvent("e2", "Personal errand", baseTime.Add(-time.Hour), 30*time.Minute),
		}

		plan := Reconcile(current, saved)

		assert.Len(t, plan.Updates, 1)
		assert.Equal(t, "501", plan.Updates[0].Event.AppointmentId)
		assert.Equal(t, baseTime.Add(time.Hour), plan.Updates[0].Event.StartTime)
		assert.Equal(t, "501", plan.Updates[0].Previous.AppointmentId)
		assert.Len(t, plan.Creates, 1)
		assert.Equal(t, "e2", plan.Creates[0].SourceEventId)
		assert.Empty(t, plan.Deletes)
	})

	t.Run("title change alone triggers an update", func(t *testing.T) {
		saved := []personal.Event{mirrored(timedEvent("e1", "OOO", baseTime, time.Hour), "501")}
		current := []personal.Event{timedEvent("e1", "OOO - extended", baseTime, time.Hour)}

		plan := Reconcile(current, saved)

		assert.Len(t, plan.Updates, 1)
		assert.Empty(t, plan.Unchanged)
	})

	t.Run("vanished events become deletes in snapshot order", func(t *testing.T) {
		saved := []personal.Event{
			mirrored(timedEvent("e1", "Unavailable", baseTime, time.Hour), "501"),
			mirrored(timedEvent("e2", "OOO", baseTime.Add(2*time.Hour), time.Hour), "502"),
		}
		current := []personal.Event{timedEvent("e1", "Unavailable", baseTime, time.Hour)}

		plan := Reconcile(current, saved)

		assert.Len(t, plan.Deletes, 1)
		assert.Equal(t, "e2", plan.Deletes[0].SourceEventId)
		assert.Len(t, plan.Unchanged, 1)
		assert.Equal(t, "501", plan.Unchanged[0].AppointmentId)
		assert.Empty(t, plan.Creates)
		assert.Empty(t, plan.Updates)
	})

	t.Run("representation flip is always an update", func(t *testing.T) {
		saved := []personal.Event{mirrored(timedEvent("e1", "OOO", baseTime, 24*time.Hour), "501")}
		current := []personal.Event{allDayEvent("e1", "OOO", "2025-03-10", "2025-03-11")}

		plan := Reconcile(current, saved)

		assert.Len(t, plan.Updates, 1)
		assert.True(t, plan.Updates[0].Event.AllDay)
		assert.False(t, plan.Updates[0].Previous.AllDay)
	})

	t.Run("changed event without an appointment id is re-planned as a create", func(t *testing.T) {
		saved := []personal.Event{allDayEvent("e1", "OOO", "2025-03-10", "2025-03-11")}
		current := []personal.Event{timedEvent("e1", "OOO", baseTime, time.Hour)}

		plan := Reconcile(current, saved)

		assert.Len(t, plan.Creates, 1)
		assert.Empty(t, plan.Updates)
	})

	t.Run("reconciling a snapshot against itself plans nothing", func(t *testing.T) {
		events := []personal.Event{
			mirrored(timedEvent("e1", "Unavailable", baseTime, time.Hour), "501"),
			allDayEvent("e2", "OOO", "2025-03-10", "2025-03-11"),
		}

		plan := Reconcile(events, events)

		assert.True(t, plan.Empty())
		assert.Len(t, plan.Unchanged, 2)
	})
}
