package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration. Loaded from config.yaml with
// environment variable expansion; every secret can be given as ${VAR}.
type Config struct {
	App struct {
		Name           string `yaml:"name"`
		BaseURL        string `yaml:"base_url"`
		Domain         string `yaml:"domain"`
		ProductionMode string `yaml:"production_mode"`
	} `yaml:"app"`

	Port int `yaml:"port"`

	Auth struct {
		AccessSecret       string `yaml:"access_secret"`
		AccessExpire       int64  `yaml:"access_expire"`        // seconds
		RefreshTokenExpire int64  `yaml:"refresh_token_expire"` // seconds
		CodeTTL            int64  `yaml:"code_ttl"`             // verification code lifetime, seconds
	} `yaml:"auth"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	SMS struct {
		Enabled    string `yaml:"enabled"`
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		FromNumber string `yaml:"from_number"`
		BaseURL    string `yaml:"base_url"` // override for tests; empty = provider default
	} `yaml:"sms"`

	AI struct {
		Provider        string `yaml:"provider"` // "anthropic" or "openai"
		AnthropicAPIKey string `yaml:"anthropic_api_key"`
		AnthropicModel  string `yaml:"anthropic_model"`
		OpenAIAPIKey    string `yaml:"openai_api_key"`
		OpenAIModel     string `yaml:"openai_model"`
	} `yaml:"ai"`

	Calendar struct {
		Enabled            string `yaml:"enabled"`
		GoogleClientID     string `yaml:"google_client_id"`
		GoogleClientSecret string `yaml:"google_client_secret"`
		RedirectURL        string `yaml:"redirect_url"`
	} `yaml:"calendar"`

	Backend struct {
		// BaseURL is the event backend the conversation pipeline pushes RSVP
		// decisions to. Normally this process itself; overridable for tests.
		BaseURL string `yaml:"base_url"`
	} `yaml:"backend"`

	Reminder struct {
		Enabled     string `yaml:"enabled"`
		Schedule    string `yaml:"schedule"`     // cron spec
		WindowHours int    `yaml:"window_hours"` // remind for events starting within this window
	} `yaml:"reminder"`

	Security struct {
		RateLimitRequests     int    `yaml:"rate_limit_requests"`
		RateLimitInterval     int    `yaml:"rate_limit_interval"` // seconds
		AuthRateLimitRequests int    `yaml:"auth_rate_limit_requests"`
		AuthRateLimitInterval int    `yaml:"auth_rate_limit_interval"`
		EnableSecurityHeaders string `yaml:"enable_security_headers"`
	} `yaml:"security"`
}

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	c := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, err
	}
	c.applyEnv()
	return c, nil
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults plus environment variables apply.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := Default()
			c.applyEnv()
			return c, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

// Default returns a config with sensible defaults
func Default() Config {
	var c Config
	c.App.Name = "convive"
	c.App.Domain = "localhost"
	c.Port = 8787
	c.Auth.AccessExpire = 3600
	c.Auth.RefreshTokenExpire = 604800
	c.Auth.CodeTTL = 300
	c.Database.SQLitePath = "./data/convive.db"
	c.AI.Provider = "anthropic"
	c.Reminder.Schedule = "0 * * * *"
	c.Reminder.WindowHours = 24
	c.Security.RateLimitRequests = 100
	c.Security.RateLimitInterval = 60
	c.Security.AuthRateLimitRequests = 5
	c.Security.AuthRateLimitInterval = 60
	c.Security.EnableSecurityHeaders = "true"
	return c
}

// applyEnv fills in values from environment variables when the YAML left them empty.
func (c *Config) applyEnv() {
	setIfEmpty(&c.Auth.AccessSecret, "CONVIVE_ACCESS_SECRET")
	setIfEmpty(&c.SMS.AccountSID, "TWILIO_ACCOUNT_SID")
	setIfEmpty(&c.SMS.AuthToken, "TWILIO_AUTH_TOKEN")
	setIfEmpty(&c.SMS.FromNumber, "TWILIO_FROM_NUMBER")
	setIfEmpty(&c.AI.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setIfEmpty(&c.AI.OpenAIAPIKey, "OPENAI_API_KEY")
	setIfEmpty(&c.Calendar.GoogleClientID, "GOOGLE_CLIENT_ID")
	setIfEmpty(&c.Calendar.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setIfEmpty(&c.Backend.BaseURL, "CONVIVE_BACKEND_URL")
}

func setIfEmpty(dst *string, env string) {
	if *dst == "" {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// parseBool parses a string as boolean with a default value.
// Accepts: "true", "1", "yes" as true; empty or other values return default.
func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}

func (c Config) IsProductionMode() bool {
	return parseBool(c.App.ProductionMode, false)
}

func (c Config) IsSMSEnabled() bool {
	return parseBool(c.SMS.Enabled, false)
}

func (c Config) IsCalendarEnabled() bool {
	return parseBool(c.Calendar.Enabled, false)
}

func (c Config) IsReminderEnabled() bool {
	return parseBool(c.Reminder.Enabled, false)
}

func (c Config) IsSecurityHeadersEnabled() bool {
	return parseBool(c.Security.EnableSecurityHeaders, true)
}

// BackendBaseURL returns the event backend base URL, falling back to the
// local server when unset.
func (c Config) BackendBaseURL() string {
	if c.Backend.BaseURL != "" {
		return strings.TrimRight(c.Backend.BaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// ServerBaseURL returns the externally reachable base URL for links in SMS.
func (c Config) ServerBaseURL() string {
	if c.App.BaseURL != "" {
		return strings.TrimRight(c.App.BaseURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", c.App.Domain, c.Port)
}
