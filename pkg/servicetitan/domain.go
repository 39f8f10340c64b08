package servicetitan

import "time"

// Technician is a roster entry as returned by the ServiceTitan settings API.
type Technician struct {
	Id     int64  `json:"id"`
	UserId int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// Appointment is the non-job appointment payload mirrored from a personal
// calendar event. The appointment removes the technician from capacity
// planning for its duration.
type Appointment struct {
	TechnicianId int64
	Start        time.Time
	Duration     time.Duration
	Name         string
	Summary      string
}
