package servicetitan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	log "github.com/sirupsen/logrus"
)

const techniciansPageSize = 100

// ErrNotFound is returned when a non-job appointment no longer exists in
// ServiceTitan. Callers treat it as already deleted.
var ErrNotFound = errors.New("non-job appointment not found")

// ErrUnauthenticated is returned when a request is attempted before
// Authenticate succeeded this cycle.
var ErrUnauthenticated = errors.New("not authenticated with ServiceTitan")

type Client interface {
	Authenticate(ctx context.Context) error
	ListTechnicians(ctx context.Context) ([]Technician, error)
	CreateNonJobAppointment(ctx context.Context, appointment Appointment) (string, error)
	UpdateNonJobAppointment(ctx context.Context, appointmentId string, appointment Appointment) (string, error)
	DeleteNonJobAppointment(ctx context.Context, appointmentId string) error
}

type ClientImpl struct {
	httpClient *http.Client
	cfg        config.ServiceTitan
	token      string
}

func NewClient(cfg config.ServiceTitan) *ClientImpl {
	return &ClientImpl{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
	}
}

// Authenticate exchanges the client credentials for a fresh access token.
// Tokens are short-lived; the sync driver re-authenticates once per cycle.
func (c *ClientImpl) Authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientId)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("ServiceTitan auth returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return err
	}

	var response struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return err
	}
	if response.AccessToken == "" {
		return fmt.Errorf("ServiceTitan auth response contained no access token")
	}
	c.token = response.AccessToken
	return nil
}

// ListTechnicians pages through the tenant's technician roster.
func (c *ClientImpl) ListTechnicians(ctx context.Context) ([]Technician, error) {
	if c.token == "" {
		return nil, ErrUnauthenticated
	}

	var technicians []Technician
	offset := 0
	for {
		requestUrl := fmt.Sprintf("%s/settings/v2/tenant/%s/technicians?offset=%d&limit=%d",
			c.cfg.BaseURL, c.cfg.TenantId, offset, techniciansPageSize)
		req, err := http.NewRequestWithContext(ctx, "GET", requestUrl, nil)
		if err != nil {
			log.Errorf("Failed to create request: %v", err)
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Errorf("Failed to execute request: %v", err)
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err := fmt.Errorf("ServiceTitan API returned non-OK status: %d - %s", resp.StatusCode, string(body))
			log.Error(err)
			return nil, err
		}

		var response struct {
			Data []Technician `json:"data"`
		}
		err = json.NewDecoder(resp.Body).Decode(&response)
		resp.Body.Close()
		if err != nil {
			log.Errorf("Failed to decode response: %v", err)
			return nil, err
		}

		technicians = append(technicians, response.Data...)
		if len(response.Data) < techniciansPageSize {
			break
		}
		offset += techniciansPageSize
	}
	return technicians, nil
}

type appointmentRequest struct {
	TechnicianId                         int64  `json:"technicianId"`
	Start                                string `json:"start"`
	Duration                             string `json:"duration"`
	Name                                 string `json:"name"`
	Summary                              string `json:"summary"`
	RemoveTechnicianFromCapacityPlanning bool   `json:"removeTechnicianFromCapacityPlanning"`
}

type appointmentResponse struct {
	Id int64 `json:"id"`
}

// CreateNonJobAppointment creates a non-job appointment and returns its id.
func (c *ClientImpl) CreateNonJobAppointment(ctx context.Context, appointment Appointment) (string, error) {
	requestUrl := fmt.Sprintf("%s/dispatch/v2/tenant/%s/non-job-appointments", c.cfg.BaseURL, c.cfg.TenantId)
	return c.sendAppointment(ctx, "POST", requestUrl, appointment)
}

// UpdateNonJobAppointment replaces an existing non-job appointment's data.
func (c *ClientImpl) UpdateNonJobAppointment(ctx context.Context, appointmentId string, appointment Appointment) (string, error) {
	requestUrl := fmt.Sprintf("%s/dispatch/v2/tenant/%s/non-job-appointments/%s", c.cfg.BaseURL, c.cfg.TenantId, appointmentId)
	return c.sendAppointment(ctx, "PUT", requestUrl, appointment)
}

func (c *ClientImpl) sendAppointment(ctx context.Context, method string, requestUrl string, appointment Appointment) (string, error) {
	if c.token == "" {
		return "", ErrUnauthenticated
	}

	payload := appointmentRequest{
		TechnicianId:                         appointment.TechnicianId,
		Start:                                appointment.Start.Format(time.RFC3339),
		Duration:                             formatDuration(appointment.Duration),
		Name:                                 appointment.Name,
		Summary:                              appointment.Summary,
		RemoveTechnicianFromCapacityPlanning: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return "", err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("ServiceTitan API returned non-OK status: %d - %s", resp.StatusCode, string(respBody))
		log.Error(err)
		return "", err
	}

	var response appointmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return "", err
	}
	return strconv.FormatInt(response.Id, 10), nil
}

// DeleteNonJobAppointment removes a non-job appointment. A missing
// appointment maps to ErrNotFound rather than a failure.
func (c *ClientImpl) DeleteNonJobAppointment(ctx context.Context, appointmentId string) error {
	if c.token == "" {
		return ErrUnauthenticated
	}

	requestUrl := fmt.Sprintf("%s/dispatch/v2/tenant/%s/non-job-appointments/%s", c.cfg.BaseURL, c.cfg.TenantId, appointmentId)
	req, err := http.NewRequestWithContext(ctx, "DELETE", requestUrl, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("ServiceTitan API returned non-OK status: %d - %s", resp.StatusCode, string(body))
		log.Error(err)
		return err
	}
	return nil
}

func (c *ClientImpl) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.token)
	req.Header.Set("ST-App-Key", c.cfg.AppKey)
}

// formatDuration renders a duration as HH:MM:SS, the shape the dispatch API
// expects.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
