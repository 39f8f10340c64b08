package syncer

import (
	"sync"
	"time"
)

// CycleReport summarizes one completed sync cycle.
type CycleReport struct {
	RunId      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Owners     int       `json:"owners"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Deleted    int       `json:"deleted"`
	Errors     []string  `json:"errors,omitempty"`
}

// Status keeps the report of the most recent cycle for the status endpoint.
type Status struct {
	mu     sync.Mutex
	last   CycleReport
	cycles int
}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) Record(report CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = report
	s.cycles++
}

// Snapshot returns the last report and the number of cycles run so far.
func (s *Status) Snapshot() (CycleReport, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.cycles
}
