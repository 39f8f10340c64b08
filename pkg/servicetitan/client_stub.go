package servicetitan

import (
	"context"
	"strconv"
)

// StubClient is an in-memory Client for tests. Appointments are stored by
// id; Fail* switches force the corresponding call to fail.
type StubClient struct {
	Technicians  []Technician
	Appointments map[string]Appointment

	AuthErr    error
	FailCreate map[string]error
	FailUpdate map[string]error
	FailDelete map[string]error

	Authenticated bool
	nextId        int64
}

func NewStubClient() *StubClient {
	return &StubClient{
		Appointments: make(map[string]Appointment),
		FailCreate:   make(map[string]error),
		FailUpdate:   make(map[string]error),
		FailDelete:   make(map[string]error),
		nextId:       1000,
	}
}

func (s *StubClient) Authenticate(ctx context.Context) error {
	if s.AuthErr != nil {
		return s.AuthErr
	}
	s.Authenticated = true
	return nil
}

func (s *StubClient) ListTechnicians(ctx context.Context) ([]Technician, error) {
	return s.Technicians, nil
}

func (s *StubClient) CreateNonJobAppointment(ctx context.Context, appointment Appointment) (string, error) {
	if err := s.FailCreate[appointment.Name]; err != nil {
		return "", err
	}
	s.nextId++
	id := strconv.FormatInt(s.nextId, 10)
	s.Appointments[id] = appointment
	return id, nil
}

func (s *StubClient) UpdateNonJobAppointment(ctx context.Context, appointmentId string, appointment Appointment) (string, error) {
	if err := s.FailUpdate[appointmentId]; err != nil {
		return "", err
	}
	if _, ok := s.Appointments[appointmentId]; !ok {
		return "", ErrNotFound
	}
	s.Appointments[appointmentId] = appointment
	return appointmentId, nil
}

func (s *StubClient) DeleteNonJobAppointment(ctx context.Context, appointmentId string) error {
	if err := s.FailDelete[appointmentId]; err != nil {
		return err
	}
	if _, ok := s.Appointments[appointmentId]; !ok {
		return ErrNotFound
	}
	delete(s.Appointments, appointmentId)
	return nil
}
