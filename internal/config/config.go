package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	HTTP         HTTP         `koanf:"http"`
	Google       Google       `koanf:"google"`
	ServiceTitan ServiceTitan `koanf:"servicetitan"`
	Sync         Sync         `koanf:"sync"`
	Database     Database     `koanf:"db"`
}

type HTTP struct {
	Addr string `koanf:"addr"`
}

// Google configures the Workspace service account used to read the user
// directory and to impersonate employees when reading their calendars.
type Google struct {
	CredentialsFile string `koanf:"credentialsfile"`
	AdminUser       string `koanf:"adminuser"`
	Customer        string `koanf:"customer"`
}

type ServiceTitan struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	AppKey       string `koanf:"appkey"`
	TenantId     string `koanf:"tenantid"`
	BaseURL      string `koanf:"baseurl"`
	AuthURL      string `koanf:"authurl"`
}

type Sync struct {
	Interval     time.Duration `koanf:"interval"`
	LookbackDays int           `koanf:"lookbackdays"`
	// Keywords overrides the default personal-event title prefixes.
	Keywords []string `koanf:"keywords"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		HTTP: HTTP{
			Addr: ":8282",
		},
		Google: Google{
			CredentialsFile: "credentials.json",
			Customer:        "my_customer",
		},
		ServiceTitan: ServiceTitan{
			BaseURL: "https://api.servicetitan.io",
			AuthURL: "https://auth.servicetitan.io/connect/token",
		},
		Sync: Sync{
			Interval:     15 * time.Minute,
			LookbackDays: 30,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "stsync",
			Pass:   "",
			Name:   "stsync",
			Schema: "public",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "STSYNC_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "STSYNC_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Validate checks that every credential needed to reach the two external
// systems is present. The process must not start without them.
func (a Application) Validate() error {
	var missing []string
	if a.Google.CredentialsFile == "" {
		missing = append(missing, "google.credentialsfile")
	}
	if a.Google.AdminUser == "" {
		missing = append(missing, "google.adminuser")
	}
	if a.ServiceTitan.ClientId == "" {
		missing = append(missing, "servicetitan.clientid")
	}
	if a.ServiceTitan.ClientSecret == "" {
		missing = append(missing, "servicetitan.clientsecret")
	}
	if a.ServiceTitan.AppKey == "" {
		missing = append(missing, "servicetitan.appkey")
	}
	if a.ServiceTitan.TenantId == "" {
		missing = append(missing, "servicetitan.tenantid")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
