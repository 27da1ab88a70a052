package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit         string        `mapstructure:"BODY_LIMIT"`
	ElevatedRoles     []string      `mapstructure:"ELEVATED_ROLES"`
	AuthLookupTimeout time.Duration `mapstructure:"AUTH_LOOKUP_TIMEOUT"`
	BcryptCost        int           `mapstructure:"BCRYPT_COST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "4000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("ELEVATED_ROLES", "doctor,nurse,admin")
	v.SetDefault("AUTH_LOOKUP_TIMEOUT", "3s")
	v.SetDefault("BCRYPT_COST", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("ELEVATED_ROLES")
	v.BindEnv("AUTH_LOOKUP_TIMEOUT")
	v.BindEnv("BCRYPT_COST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.ElevatedRoles == nil {
		if roles := v.GetString("ELEVATED_ROLES"); roles != "" {
			cfg.ElevatedRoles = splitList(roles)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with. The elevated
// role set is the single authorization policy knob: roles granted
// can_access_admin at login time.
func (c *Config) Validate() error {
	if len(c.ElevatedRoles) == 0 {
		return fmt.Errorf("ELEVATED_ROLES must name at least one role")
	}
	for _, r := range c.ElevatedRoles {
		switch r {
		case "doctor", "nurse", "admin":
		default:
			return fmt.Errorf("ELEVATED_ROLES contains unknown role %q", r)
		}
	}
	if c.AuthLookupTimeout <= 0 {
		return fmt.Errorf("AUTH_LOOKUP_TIMEOUT must be positive, got %s", c.AuthLookupTimeout)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
