package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Transport names accepted by FAM_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

var (
	// LogLevels is the fixed set of accepted LOG_LEVEL values.
	LogLevels = []string{"debug", "info", "warn", "error"}
	// Transports is the fixed set of accepted FAM_TRANSPORT values.
	Transports = []string{TransportStdio, TransportHTTP}
	// LogOutputs is the fixed set of accepted LOG_OUTPUTS entries.
	LogOutputs = []string{"console", "file"}
)

// FieldError describes one missing or invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports every configuration field that failed validation.
type ValidationError struct {
	Issues []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Field + " " + issue.Message
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Fields returns the offending field names in check order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		fields[i] = issue.Field
	}
	return fields
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks mandatory fields and enum constraints. It reports every
// violation at once and performs no I/O. The returned error is a
// *ValidationError when non-nil.
func (c *Config) Validate() error {
	v := &ValidationError{}
	v.Issues = append(v.Issues, c.envIssues...)

	base := strings.TrimSpace(c.BMLT.APIBase)
	switch {
	case base == "":
		v.add("BMLT_API_BASE", "is required")
	case !validHTTPURL(base):
		v.add("BMLT_API_BASE", "must be an absolute http or https URL (got %q)", base)
	}

	if strings.TrimSpace(c.Server.Version) == "" {
		v.add("SERVER_VERSION", "is required")
	}

	if !stringIn(c.Logging.Level, LogLevels) {
		v.add("LOG_LEVEL", "must be one of: %s (got %q)", strings.Join(LogLevels, ", "), c.Logging.Level)
	}

	for _, out := range c.Logging.Outputs {
		if !stringIn(out, LogOutputs) {
			v.add("LOG_OUTPUTS", "entries must be one of: %s (got %q)", strings.Join(LogOutputs, ", "), out)
			break
		}
	}

	if !stringIn(c.Server.Transport, Transports) {
		v.add("FAM_TRANSPORT", "must be one of: %s (got %q)", strings.Join(Transports, ", "), c.Server.Transport)
	} else if c.Server.Transport == TransportHTTP && (c.Server.Port < 1 || c.Server.Port > 65535) {
		v.add("FAM_HTTP_PORT", "must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	if c.BMLT.TimeoutSec <= 0 {
		v.add("BMLT_TIMEOUT_SEC", "must be greater than zero (got %d)", c.BMLT.TimeoutSec)
	}
	if c.BMLT.CacheTTLSec < 0 {
		v.add("BMLT_CACHE_TTL_SEC", "must not be negative (got %d)", c.BMLT.CacheTTLSec)
	} else if c.BMLT.CacheTTLSec > 0 && c.BMLT.CacheMaxEntries < 1 {
		v.add("BMLT_CACHE_MAX_ENTRIES", "must be at least 1 when caching is enabled (got %d)", c.BMLT.CacheMaxEntries)
	}
	if c.Server.ShutdownTimeoutSec <= 0 {
		v.add("FAM_SHUTDOWN_TIMEOUT_SEC", "must be greater than zero (got %d)", c.Server.ShutdownTimeoutSec)
	}

	if len(v.Issues) > 0 {
		return v
	}
	return nil
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func stringIn(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
