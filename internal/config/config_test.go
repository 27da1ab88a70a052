package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/portal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "4000" {
		t.Errorf("expected default port 4000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development env by default")
	}
	if cfg.AuthLookupTimeout != 3*time.Second {
		t.Errorf("expected 3s lookup timeout, got %s", cfg.AuthLookupTimeout)
	}
	if len(cfg.ElevatedRoles) != 3 {
		t.Errorf("expected 3 default elevated roles, got %v", cfg.ElevatedRoles)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without DATABASE_URL")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/portal")
	t.Setenv("PORT", "8080")
	t.Setenv("ELEVATED_ROLES", "doctor, admin")
	t.Setenv("AUTH_LOOKUP_TIMEOUT", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if len(cfg.ElevatedRoles) != 2 || cfg.ElevatedRoles[1] != "admin" {
		t.Errorf("unexpected elevated roles: %v", cfg.ElevatedRoles)
	}
	if cfg.AuthLookupTimeout != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", cfg.AuthLookupTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		ElevatedRoles:     []string{"doctor", "nurse", "admin"},
		AuthLookupTimeout: 3 * time.Second,
		BcryptCost:        10,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		mut  func(c *Config)
	}{
		{"no elevated roles", func(c *Config) { c.ElevatedRoles = nil }},
		{"unknown elevated role", func(c *Config) { c.ElevatedRoles = []string{"patient"} }},
		{"zero timeout", func(c *Config) { c.AuthLookupTimeout = 0 }},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 40 }},
	}
	for _, tc := range cases {
		c := *valid
		c.ElevatedRoles = append([]string(nil), valid.ElevatedRoles...)
		tc.mut(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
