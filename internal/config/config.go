package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port               string        `koanf:"port"`
	DatabaseURL        string        `koanf:"database_url"`
	AuthSecret         string        `koanf:"auth_secret"`
	TokenTTL           time.Duration `koanf:"token_ttl"`
	CORSOrigins        string        `koanf:"cors_origins"`
	MailAPIKey         string        `koanf:"mail_api_key"`
	MailAPIURL         string        `koanf:"mail_api_url"`
	MailFrom           string        `koanf:"mail_from"`
	AdminEmail         string        `koanf:"admin_email"`
	SchedulerInterval  time.Duration `koanf:"scheduler_interval"`
	LoginRatePerMinute int           `koanf:"login_rate_per_minute"`
	NotifyChannel      string        `koanf:"notify_channel"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		TokenTTL:           72 * time.Hour,
		CORSOrigins:        "*",
		MailAPIURL:         "https://api.resend.com/emails",
		MailFrom:           "campaigns@localhost",
		SchedulerInterval:  time.Hour,
		LoginRatePerMinute: 10,
		NotifyChannel:      "campaign_events",
	}
}

// known lists the environment variables the service reads; everything else
// in the process environment is ignored.
var known = map[string]bool{
	"port":                  true,
	"database_url":          true,
	"auth_secret":           true,
	"token_ttl":             true,
	"cors_origins":          true,
	"mail_api_key":          true,
	"mail_api_url":          true,
	"mail_from":             true,
	"admin_email":           true,
	"scheduler_interval":    true,
	"login_rate_per_minute": true,
	"notify_channel":        true,
}

// Load reads defaults and then overrides them from the environment
// (PORT -> port, DATABASE_URL -> database_url, ...).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps an environment variable onto a config key. Unknown variables
// map to "" which koanf skips.
func envKey(name string) string {
	key := strings.ToLower(name)
	if !known[key] {
		return ""
	}
	return key
}

func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if len(c.AuthSecret) < 16 {
		errs = append(errs, errors.New("AUTH_SECRET must be at least 16 characters"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.SchedulerInterval < time.Second {
		errs = append(errs, errors.New("SCHEDULER_INTERVAL must be at least 1s"))
	}
	if c.LoginRatePerMinute <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE must be positive"))
	}
	if c.NotifyChannel == "" {
		errs = append(errs, errors.New("NOTIFY_CHANNEL is empty"))
	}

	return errors.Join(errs...)
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// MailEnabled reports whether outgoing email should go through the HTTP API.
func (c *Config) MailEnabled() bool {
	return c.MailAPIKey != ""
}
