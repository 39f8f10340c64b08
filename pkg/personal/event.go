package personal

import "time"

// AppointmentUnset marks an event that has no acknowledged non-job
// appointment in ServiceTitan yet.
const AppointmentUnset = ""

// Event is one calendar event classified as personal time. Exactly one time
// representation is populated: the precise (StartTime, EndTime, Timezone)
// triple, or the all-day (StartDate, EndDate) pair, selected by AllDay.
type Event struct {
	SourceEventId  string    `json:"sourceEventId"`
	AppointmentId  string    `json:"appointmentId"`
	OwnerEmail     string    `json:"ownerEmail"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	CreatorEmail   string    `json:"creatorEmail"`
	OrganizerEmail string    `json:"organizerEmail"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`

	AllDay    bool      `json:"allDay"`
	StartTime time.Time `json:"startTime,omitzero"`
	EndTime   time.Time `json:"endTime,omitzero"`
	Timezone  string    `json:"timezone,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
}

// Mirrored reports whether the event has been acknowledged by ServiceTitan.
func (e Event) Mirrored() bool {
	return e.AppointmentId != AppointmentUnset
}

// SameRange reports whether two events cover the same time range. Only the
// populated representation is compared; a flip between all-day and precise is
// always a change.
func (e Event) SameRange(other Event) bool {
	if e.AllDay != other.AllDay {
		return false
	}
	if e.AllDay {
		return e.StartDate == other.StartDate && e.EndDate == other.EndDate
	}
	return e.StartTime.Equal(other.StartTime) && e.EndTime.Equal(other.EndTime)
}

// Duration is the length of a precise event. Zero for all-day events.
func (e Event) Duration() time.Duration {
	if e.AllDay {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}
