// Package config loads and validates the fam-mcp server configuration.
//
// Sources are applied with priority: defaults -> TOML files -> .env files ->
// process environment -> command-line flags. A Config is treated as immutable
// once Validate has succeeded; components hold it by pointer and only read it.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/fam-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	BMLT      BMLTConfig           `toml:"bmlt"`
	Logging   common.LoggingConfig `toml:"logging"`
	Telemetry TelemetryConfig      `toml:"telemetry"`

	// envIssues records environment values that could not be parsed.
	envIssues []FieldError
}

// ServerConfig contains MCP server identity and transport settings.
type ServerConfig struct {
	Name               string `toml:"name"`
	Version            string `toml:"version"`
	UserAgent          string `toml:"user_agent"`
	Transport          string `toml:"transport"` // stdio or http
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	ShutdownTimeoutSec int    `toml:"shutdown_timeout_sec"`
}

// BMLTConfig contains settings for the BMLT meeting directory API.
type BMLTConfig struct {
	APIBase         string `toml:"api_base"`
	TimeoutSec      int    `toml:"timeout_sec"`
	CacheTTLSec     int    `toml:"cache_ttl_sec"` // 0 disables the search cache
	CacheMaxEntries int    `toml:"cache_max_entries"`
}

// TelemetryConfig contains OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Address returns the host:port the HTTP transport listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// BMLTTimeout returns the upstream request timeout.
func (c *Config) BMLTTimeout() time.Duration {
	return time.Duration(c.BMLT.TimeoutSec) * time.Second
}

// CacheTTL returns how long successful search results are reused.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.BMLT.CacheTTLSec) * time.Second
}

// ShutdownTimeout returns how long in-flight tool calls may drain on shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSec) * time.Second
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	deriveUserAgent(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if base := os.Getenv("BMLT_API_BASE"); base != "" {
		config.BMLT.APIBase = base
	}
	envInt(config, "BMLT_TIMEOUT_SEC", &config.BMLT.TimeoutSec)
	envInt(config, "BMLT_CACHE_TTL_SEC", &config.BMLT.CacheTTLSec)
	envInt(config, "BMLT_CACHE_MAX_ENTRIES", &config.BMLT.CacheMaxEntries)
	if version := os.Getenv("SERVER_VERSION"); version != "" {
		config.Server.Version = version
	}
	if ua := os.Getenv("USER_AGENT"); ua != "" {
		config.Server.UserAgent = ua
	}
	if name := os.Getenv("FAM_SERVER_NAME"); name != "" {
		config.Server.Name = name
	}
	if transport := os.Getenv("FAM_TRANSPORT"); transport != "" {
		config.Server.Transport = transport
	}
	if host := os.Getenv("FAM_HTTP_HOST"); host != "" {
		config.Server.Host = host
	}
	envInt(config, "FAM_HTTP_PORT", &config.Server.Port)
	envInt(config, "FAM_SHUTDOWN_TIMEOUT_SEC", &config.Server.ShutdownTimeoutSec)
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = splitCSV(outputs)
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.FilePath = file
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		config.Telemetry.OTLPEndpoint = endpoint
	}
}

// envInt overrides dst with the integer value of the named variable. A value
// that is not an integer leaves dst unchanged and is reported by Validate.
func envInt(config *Config, name string, dst *int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		config.envIssues = append(config.envIssues, FieldError{
			Field:   name,
			Message: fmt.Sprintf("must be an integer (got %q)", raw),
		})
		return
	}
	*dst = n
}

// deriveUserAgent fills the user agent from the server version when unset.
func deriveUserAgent(config *Config) {
	if config.Server.UserAgent == "" {
		config.Server.UserAgent = "fam/" + config.Server.Version
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, transport string, port int) {
	if transport != "" {
		config.Server.Transport = transport
	}
	if port > 0 {
		config.Server.Port = port
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
