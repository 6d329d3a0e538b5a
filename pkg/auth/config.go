package auth

import (
	"fmt"
	"os"
	"strings"
)

// Config holds bearer token verification settings. An empty Secret disables
// authentication.
type Config struct {
	Secret     string   `toml:"secret"`
	Issuer     string   `toml:"issuer"`
	WriteRoles []string `toml:"write_roles"`
	Leeway     string   `toml:"leeway"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Secret     string
	Issuer     string
	WriteRoles string
	Leeway     string
}

// Enabled reports whether tokens are verified.
func (c *Config) Enabled() bool {
	return c.Secret != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.Leeway == "" {
		c.Leeway = "30s"
	}
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.WriteRoles != nil {
		c.WriteRoles = overlay.WriteRoles
	}
	if overlay.Leeway != "" {
		c.Leeway = overlay.Leeway
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := getenv(env.Secret); v != "" {
		c.Secret = v
	}
	if v := getenv(env.Issuer); v != "" {
		c.Issuer = v
	}
	if v := getenv(env.WriteRoles); v != "" {
		roles := make([]string, 0)
		for role := range strings.SplitSeq(v, ",") {
			if trimmed := strings.TrimSpace(role); trimmed != "" {
				roles = append(roles, trimmed)
			}
		}
		c.WriteRoles = roles
	}
	if v := getenv(env.Leeway); v != "" {
		c.Leeway = v
	}
}

func (c *Config) validate() error {
	if _, err := parseLeeway(c.Leeway); err != nil {
		return fmt.Errorf("invalid leeway: %w", err)
	}
	if c.Secret != "" && len(c.Secret) < 16 {
		return fmt.Errorf("secret must be at least 16 bytes")
	}
	return nil
}

func getenv(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}
