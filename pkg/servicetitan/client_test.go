package servicetitan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestClient(server *httptest.Server) *ClientImpl {
	return NewClient(config.ServiceTitan{
		ClientId:     "client-id",
		ClientSecret: "client-secret",
		AppKey:       "app-key",
		TenantId:     "42",
		BaseURL:      server.URL,
		AuthURL:      server.URL + "/connect/token",
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("stores the access token from a successful exchange", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/connect/token", r.URL.Path)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
		}))
		defer server.Close()
		client := newTestClient(server)

		err := client.Authenticate(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "token-123", client.token)
	})

	t.Run("fails when the exchange is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()
		client := newTestClient(server)

		err := client.Authenticate(context.Background())

		assert.Error(t, err)
		assert.Empty(t, client.token)
	})
}

func TestListTechnicians(t *testing.T) {
	t.Run("pages until a short page and sends auth headers", func(t *testing.T) {
		firstPage := make([]Technician, techniciansPageSize)
		for i := range firstPage {
			firstPage[i] = Technician{Id: int64(i + 1), Name: fmt.Sprintf("Tech %d", i+1), Active: true}
		}
		secondPage := []Technician{{Id: 900, Name: "Sam Field", Email: "sam@example.com", Active: true}}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/settings/v2/tenant/42/technicians", r.URL.Path)
			assert.Equal(t, "token-123", r.Header.Get("Authorization"))
			assert.Equal(t, "app-key", r.Header.Get("ST-App-Key"))
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			page := firstPage
			if offset > 0 {
				page = secondPage
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": page})
		}))
		defer server.Close()
		client := newTestClient(server)
		client.token = "token-123"

		technicians, err := client.ListTechnicians(context.Background())

		assert.NoError(t, err)
		assert.Len(t, technicians, techniciansPageSize+1)
		assert.Equal(t, "sam@example.com", technicians[techniciansPageSize].Email)
	})

	t.Run("refuses to call without a token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not be sent")
		}))
		defer server.Close()
		client := newTestClient(server)

		_, err := client.ListTechnicians(context.Background())

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestNonJobAppointments(t *testing.T) {
	appointment := Appointment{
		TechnicianId: 7,
		Start:        time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		Duration:     90 * time.Minute,
		Name:         "Unavailable - dentist",
		Summary:      "Mirrored from personal calendar",
	}

	t.Run("create posts the capacity planning payload and returns the id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/dispatch/v2/tenant/42/non-job-appointments", r.URL.Path)

			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, float64(7), payload["technicianId"])
			assert.Equal(t, "2025-03-10T14:00:00Z", payload["start"])
			assert.Equal(t, "01:30:00", payload["duration"])
			assert.Equal(t, true, payload["removeTechnicianFromCapacityPlanning"])

			_ = json.NewEncoder(w).Encode(map[string]int64{"id": 5551})
		}))
		defer server.Close()
		client := newTestClient(server)
		client.token = "token-123"

		id, err := client.CreateNonJobAppointment(context.Background(), appointment)

		assert.NoError(t, err)
		assert.Equal(t, "5551", id)
	})

	t.Run("update maps a missing appointment to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "PUT", r.Method)
			assert.Equal(t, "/dispatch/v2/tenant/42/non-job-appointments/5551", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := newTestClient(server)
		client.token = "token-123"

		_, err := client.UpdateNonJobAppointment(context.Background(), "5551", appointment)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete maps a missing appointment to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "DELETE", r.Method)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := newTestClient(server)
		client.token = "token-123"

		err := client.DeleteNonJobAppointment(context.Background(), "5551")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete succeeds on no content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()
		client := newTestClient(server)
		client.token = "token-123"

		assert.NoError(t, client.DeleteNonJobAppointment(context.Background(), "5551"))
	})
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:15:00", formatDuration(15*time.Minute))
	assert.Equal(t, "01:30:00", formatDuration(90*time.Minute))
	assert.Equal(t, "26:00:30", formatDuration(26*time.Hour+30*time.Second))
	assert.Equal(t, "00:00:00", formatDuration(0))
}
