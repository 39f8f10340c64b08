package personal

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

// defaultPrefixes are the title prefixes that mark an event as personal time.
// "apitest" is the marker used for end-to-end testing against real calendars.
var defaultPrefixes = []string{"unavailable", "personal", "ooo", "apitest"}

// Classifier filters raw calendar events down to personal-time events.
type Classifier struct {
	prefixes []string
}

func NewClassifier(prefixes []string) *Classifier {
	if len(prefixes) == 0 {
		prefixes = defaultPrefixes
	}
	return &Classifier{prefixes: prefixes}
}

// Classify returns the personal-time events found in rawEvents, owned by
// owner. Events without a title, or whose title does not start with one of
// the configured prefixes, are dropped silently. Events missing both time
// representations are malformed upstream data: they are logged and skipped,
// never defaulted.
func (c *Classifier) Classify(owner string, rawEvents []*gcal.Event) []Event {
	var events []Event
	for _, raw := range rawEvents {
		if !c.isPersonal(raw.Summary) {
			continue
		}
		event, ok := c.convert(owner, raw)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events
}

func (c *Classifier) isPersonal(title string) bool {
	if title == "" {
		return false
	}
	title = strings.ToLower(strings.TrimSpace(title))
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

func (c *Classifier) convert(owner string, raw *gcal.Event) (Event, bool) {
	event := Event{
		SourceEventId: raw.Id,
		AppointmentId: AppointmentUnset,
		OwnerEmail:    owner,
		Title:         raw.Summary,
		Description:   raw.Description,
	}
	if raw.Creator != nil {
		event.CreatorEmail = raw.Creator.Email
	}
	if raw.Organizer != nil {
		event.OrganizerEmail = raw.Organizer.Email
	}
	event.CreatedAt, _ = time.Parse(time.RFC3339, raw.Created)
	event.UpdatedAt, _ = time.Parse(time.RFC3339, raw.Updated)

	switch {
	case raw.Start == nil || raw.End == nil:
		log.Errorf("malformed calendar event %s for %s: missing start or end, skipping", raw.Id, owner)
		return Event{}, false
	case raw.Start.DateTime != "":
		start, startErr := time.Parse(time.RFC3339, raw.Start.DateTime)
		end, endErr := time.Parse(time.RFC3339, raw.End.DateTime)
		if startErr != nil || endErr != nil {
			log.Errorf("malformed calendar event %s for %s: unparseable datetime, skipping", raw.Id, owner)
			return Event{}, false
		}
		event.StartTime = start
		event.EndTime = end
		event.Timezone = raw.Start.TimeZone
	case raw.Start.Date != "":
		event.AllDay = true
		event.StartDate = raw.Start.Date
		event.EndDate = raw.End.Date
	default:
		log.Errorf("malformed calendar event %s for %s: no time representation, skipping", raw.Id, owner)
		return Event{}, false
	}

	return event, true
}
