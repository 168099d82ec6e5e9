package config

import "github.com/bobmcallan/fam-mcp/internal/common"

// DefaultAPIBase is the production BMLT root server used when none is configured.
const DefaultAPIBase = "https://bmlt.mtrna.org/prod"

// NewDefaultConfig creates a configuration with default values.
// The user agent is left empty and derived from the version after loading.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:               "fam",
			Version:            "0.0.1",
			Transport:          TransportStdio,
			Host:               "localhost",
			Port:               4250,
			ShutdownTimeoutSec: 10,
		},
		BMLT: BMLTConfig{
			APIBase:         DefaultAPIBase,
			TimeoutSec:      30,
			CacheMaxEntries: 256,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/fam-mcp.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
