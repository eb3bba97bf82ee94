// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - Validation failures wrap ErrInvalidConfig; read/parse failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
)

// Peer pool modes for percentile comparison.
const (
	PeerPoolAll      = "all"
	PeerPoolComplete = "complete"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath is the combine table, CSV or SQLite (.db, .sqlite).
	DatasetPath string `koanf:"dataset_path"`

	// PlayersPath is the player metadata table, CSV or SQLite.
	PlayersPath string `koanf:"players_path"`

	// RegionsPath is an optional YAML institution-to-region map. Empty uses the built-in map.
	RegionsPath string `koanf:"regions_path"`

	// Portrait reference handling.
	PortraitHost        string `koanf:"portrait_host"`
	PortraitToken       string `koanf:"portrait_token"`
	PortraitFormat      string `koanf:"portrait_format"`
	PortraitPlaceholder string `koanf:"portrait_placeholder"`

	// Ranking size default and clamp bounds.
	DefaultTopN int `koanf:"default_top_n"`
	MinTopN     int `koanf:"min_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	// PipelineSchools is the number of institutions kept by the pipeline view.
	PipelineSchools int `koanf:"pipeline_schools"`

	// DefaultYearMin and DefaultYearMax are the dashboard's initial year range.
	DefaultYearMin int `koanf:"default_year_min"`
	DefaultYearMax int `koanf:"default_year_max"`

	// PeerPool is "all" or "complete".
	PeerPool string `koanf:"peer_pool"`

	// MCPEnabled mounts the MCP handler at MCPPath.
	MCPEnabled bool   `koanf:"mcp_enabled"`
	MCPPath    string `koanf:"mcp_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DatasetPath:         "nfl_combine_2010_to_2023.csv",
		PlayersPath:         "players.csv",
		PortraitHost:        "static.www.nfl.com",
		PortraitToken:       "{formatInstructions}",
		PortraitFormat:      "t_headshot_desktop",
		PortraitPlaceholder: "/static/no_player.png",
		DefaultTopN:         10,
		MinTopN:             5,
		MaxTopN:             50,
		PipelineSchools:     8,
		DefaultYearMin:      2010,
		DefaultYearMax:      2023,
		PeerPool:            PeerPoolAll,
		MCPEnabled:          true,
		MCPPath:             "/mcp",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatasetPath) == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.PlayersPath) == "":
		return fmt.Errorf("%w: players_path must not be empty", ErrInvalidConfig)
	case c.MinTopN <= 0:
		return fmt.Errorf("%w: min_top_n must be positive, got %d", ErrInvalidConfig, c.MinTopN)
	case c.MaxTopN < c.MinTopN:
		return fmt.Errorf("%w: max_top_n (%d) must not be below min_top_n (%d)", ErrInvalidConfig, c.MaxTopN, c.MinTopN)
	case c.PipelineSchools <= 0:
		return fmt.Errorf("%w: pipeline_schools must be positive, got %d", ErrInvalidConfig, c.PipelineSchools)
	case c.DefaultYearMin > c.DefaultYearMax:
		return fmt.Errorf("%w: default_year_min (%d) is after default_year_max (%d)", ErrInvalidConfig, c.DefaultYearMin, c.DefaultYearMax)
	case c.PeerPool != PeerPoolAll && c.PeerPool != PeerPoolComplete:
		return fmt.Errorf("%w: peer_pool must be %q or %q, got %q", ErrInvalidConfig, PeerPoolAll, PeerPoolComplete, c.PeerPool)
	case c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/"):
		return fmt.Errorf("%w: mcp_path must start with /, got %q", ErrInvalidConfig, c.MCPPath)
	}
	return nil
}
