package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Port != 8787 {
		t.Errorf("default port = %d", c.Port)
	}
	if c.Auth.AccessExpire != 3600 || c.Auth.CodeTTL != 300 {
		t.Errorf("unexpected auth defaults: %+v", c.Auth)
	}
	if c.IsProductionMode() {
		t.Error("production mode should default off")
	}
	if !c.IsSecurityHeadersEnabled() {
		t.Error("security headers should default on")
	}
}

func TestLoadFromBytesExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CONVIVE_SECRET", "s3cret")
	c, err := LoadFromBytes([]byte(`
port: 9000
auth:
  access_secret: ${TEST_CONVIVE_SECRET}
sms:
  enabled: "true"
  account_sid: AC123
  auth_token: tok
  from_number: "+15550001111"
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != 9000 {
		t.Errorf("port = %d", c.Port)
	}
	if c.Auth.AccessSecret != "s3cret" {
		t.Errorf("env expansion failed: %q", c.Auth.AccessSecret)
	}
	if !c.IsSMSEnabled() {
		t.Error("sms.enabled not parsed")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("CONVIVE_ACCESS_SECRET", "from-env")
	c, err := LoadFromBytes([]byte("port: 8080\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Auth.AccessSecret != "from-env" {
		t.Errorf("env fallback not applied: %q", c.Auth.AccessSecret)
	}
}

func TestBackendBaseURL(t *testing.T) {
	c := Default()
	if got := c.BackendBaseURL(); got != "http://localhost:8787" {
		t.Errorf("default backend URL = %q", got)
	}
	c.Backend.BaseURL = "https://api.example.com/"
	if got := c.BackendBaseURL(); got != "https://api.example.com" {
		t.Errorf("trailing slash not trimmed: %q", got)
	}
}

func TestParseBool(t *testing.T) {
	cases := []struct {
		in         string
		defaultVal bool
		want       bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"off", true, false},
		{"", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		if got := parseBool(tc.in, tc.defaultVal); got != tc.want {
			t.Errorf("parseBool(%q, %v) = %v, want %v", tc.in, tc.defaultVal, got, tc.want)
		}
	}
}
