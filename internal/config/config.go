package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the process-wide settings every component receives at
// startup. It is constructed once and never mutated afterwards.
type Config struct {
	// Endpoint is the URL of the Conveyor GraphQL API.
	Endpoint string `koanf:"endpoint"`
	// Credential is the opaque credential string, either a session
	// cookie bundle or a user access key.
	Credential string `koanf:"credential"`
	// OrgID is the default tenant every tool falls back to when the
	// caller omits an explicit org_id argument.
	OrgID string `koanf:"org_id"`
	// AuthMode optionally forces the credential kind: "cookie",
	// "accesskey", or empty to infer it from the credential content.
	AuthMode string `koanf:"auth_mode"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// Overrides carries command-line flag values. A non-empty field wins
// over the corresponding environment variable.
type Overrides struct {
	Endpoint   string
	Credential string
	OrgID      string
	AuthMode   string
	LogLevel   string
}

// Load resolves configuration from a .env file (if present), then
// CONVEYOR_* environment variables, then the given flag overrides,
// highest precedence last.
func Load(overrides Overrides) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("CONVEYOR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CONVEYOR_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if overrides.Endpoint != "" {
		cfg.Endpoint = overrides.Endpoint
	}
	if overrides.Credential != "" {
		cfg.Credential = overrides.Credential
	}
	if overrides.OrgID != "" {
		cfg.OrgID = overrides.OrgID
	}
	if overrides.AuthMode != "" {
		cfg.AuthMode = overrides.AuthMode
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the startup conditions the server cannot run
// without. A failure here is fatal before any tool is registered.
func (c *Config) Validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "endpoint (--endpoint or CONVEYOR_ENDPOINT)")
	}
	if c.Credential == "" {
		missing = append(missing, "credential (--credential or CONVEYOR_CREDENTIAL)")
	}
	if c.OrgID == "" {
		missing = append(missing, "org id (--org-id or CONVEYOR_ORG_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.AuthMode {
	case "", AuthModeCookie, AuthModeAccessKey:
	default:
		return fmt.Errorf("invalid auth mode %q: must be %q or %q", c.AuthMode, AuthModeCookie, AuthModeAccessKey)
	}
	return nil
}

// Accepted values for Config.AuthMode.
const (
	AuthModeCookie    = "cookie"
	AuthModeAccessKey = "accesskey"
)
