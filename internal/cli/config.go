package cli

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config holds CLI configuration. Defaults come from PICKUP_* environment
// variables and are overridden by flags.
type Config struct {
	ServerURL string
	Output    string
	Timeout   time.Duration
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("PICKUP_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("PICKUP_OUTPUT", "text"),
		Timeout:   durationFromEnv("PICKUP_TIMEOUT", defaultTimeout),
		Verbose:   os.Getenv("PICKUP_VERBOSE") != "",
	}
}

// Validate rejects settings no command can run with
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// durationFromEnv falls back to defaultVal when the variable is unset or malformed
func durationFromEnv(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return d
}
