package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	"golang.org/x/oauth2/google"
)

// Auth builds impersonating HTTP clients from a domain-wide-delegation
// service account key. Each call impersonates one Workspace user (the admin
// for directory reads, the employee for calendar reads).
type Auth struct {
	credentials []byte
	adminUser   string
}

func NewAuth(cfg config.Google) (*Auth, error) {
	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account credentials from %s: %w", cfg.CredentialsFile, err)
	}
	return &Auth{credentials: credentials, adminUser: cfg.AdminUser}, nil
}

// AdminUser is the Workspace admin impersonated for directory reads.
func (a *Auth) AdminUser() string {
	return a.adminUser
}

func (a *Auth) client(ctx context.Context, subject string, scopes ...string) (*http.Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(a.credentials, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}
	jwtConfig.Subject = subject
	return jwtConfig.Client(ctx), nil
}
