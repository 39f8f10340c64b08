package google

import (
	"context"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/pkg/roster"
	gcal "google.golang.org/api/calendar/v3"
)

type StubDirectory struct {
	Identities []roster.WorkspaceIdentity
	Err        error
}

func (s *StubDirectory) ListIdentities(ctx context.Context) ([]roster.WorkspaceIdentity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Identities, nil
}

type StubCalendarClient struct {
	EventsByEmail map[string][]*gcal.Event
	ErrByEmail    map[string]error
	LastSince     time.Time
}

func NewStubCalendarClient() *StubCalendarClient {
	return &StubCalendarClient{
		EventsByEmail: make(map[string][]*gcal.Event),
		ErrByEmail:    make(map[string]error),
	}
}

func (s *StubCalendarClient) ListEventsSince(ctx context.Context, email string, since time.Time) ([]*gcal.Event, error) {
	s.LastSince = since
	if err := s.ErrByEmail[email]; err != nil {
		return nil, err
	}
	return s.EventsByEmail[email], nil
}
