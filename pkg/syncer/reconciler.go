package syncer

import (
	"github.com/JaimeTPT/google-calendar-st-api/pkg/personal"
)

// Update pairs the desired state of an event with the snapshot entry it
// replaces. Previous carries the acknowledged appointment id and is restored
// when applying the update fails.
type Update struct {
	Event    personal.Event
	Previous personal.Event
}

// Plan is the set of dispatch actions needed to bring ServiceTitan in line
// with one owner's current calendar. Unchanged entries carry straight into
// the next snapshot.
type Plan struct {
	Creates   []personal.Event
	Updates   []Update
	Deletes   []personal.Event
	Unchanged []personal.Event
}

func (p Plan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// Reconcile diffs the freshly classified events against the snapshot saved
// after the previous cycle, keyed by source event id. Current events absent
// from the snapshot become creates; matched events whose range or text
// changed become updates with the appointment id carried over; snapshot
// entries absent from the current fetch become deletes, in snapshot order.
//
// A matched event that never got an appointment id is re-planned as a create
// rather than an update; there is nothing in ServiceTitan to update yet.
func Reconcile(current, saved []personal.Event) Plan {
	savedById := make(map[string]personal.Event, len(saved))
	for _, event := range saved {
		savedById[event.SourceEventId] = event
	}
	currentById := make(map[string]bool, len(current))

	var plan Plan
	for _, event := range current {
		currentById[event.SourceEventId] = true

		previous, ok := savedById[event.SourceEventId]
		if !ok {
			plan.Creates = append(plan.Creates, event)
			continue
		}

		event.AppointmentId = previous.AppointmentId
		if event.SameRange(previous) && event.Title == previous.Title && event.Description == previous.Description {
			plan.Unchanged = append(plan.Unchanged, event)
			continue
		}
		if !previous.Mirrored() {
			plan.Creates = append(plan.Creates, event)
			continue
		}
		plan.Updates = append(plan.Updates, Update{Event: event, Previous: previous})
	}

	for _, event := range saved {
		if !currentById[event.SourceEventId] {
			plan.Deletes = append(plan.Deletes, event)
		}
	}
	return plan
}
