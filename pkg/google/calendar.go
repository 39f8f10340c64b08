package google

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarClient reads one employee's primary calendar.
type CalendarClient interface {
	ListEventsSince(ctx context.Context, email string, since time.Time) ([]*gcal.Event, error)
}

type CalendarClientImpl struct {
	auth *Auth
}

func NewCalendarClient(auth *Auth) *CalendarClientImpl {
	return &CalendarClientImpl{auth: auth}
}

// ListEventsSince returns all events on the primary calendar of email that
// start after since, impersonating the employee. Recurring events are
// expanded into single instances so the reconciler sees concrete time ranges.
func (c *CalendarClientImpl) ListEventsSince(ctx context.Context, email string, since time.Time) ([]*gcal.Event, error) {
	client, err := c.auth.client(ctx, email, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, err
	}
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to create calendar client for %s: %w", email, err)
		log.Error(err)
		return nil, err
	}

	var events []*gcal.Event
	pageToken := ""
	for {
		call := service.Events.List(email).
			TimeMin(since.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		response, err := call.Context(ctx).Do()
		if err != nil {
			err := fmt.Errorf("unable to list calendar events for %s: %w", email, err)
			log.Error(err)
			return nil, err
		}
		events = append(events, response.Items...)
		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return events, nil
}
