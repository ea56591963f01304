// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all game and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// BOARD CONFIGURATION
// =============================================================================

// BoardConfig holds the playfield geometry. Height includes the hidden spawn
// buffer rows above the visible area.
type BoardConfig struct {
	Width      int // Columns in the well
	Height     int // Total rows, hidden buffer included
	HiddenRows int // Non-visible spawn buffer rows at the top
	SpawnX     int // Spawn anchor column
	SpawnY     int // Spawn anchor row
}

// DefaultBoard returns the standard 10-wide well with two buffer rows.
func DefaultBoard() BoardConfig {
	return BoardConfig{
		Width:      10,
		Height:     22,
		HiddenRows: 2,
		SpawnX:     3,
		SpawnY:     0,
	}
}

// BoardFromEnv returns board configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func BoardFromEnv() BoardConfig {
	cfg := DefaultBoard()

	if w := getEnvInt("BOARD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("BOARD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}

	return cfg
}

// =============================================================================
// TIMING CONFIGURATION
// =============================================================================

// TimingConfig holds the host-side timing knobs. The engine itself owns no
// clock; these drive the gravity loop and the line-clear delay.
type TimingConfig struct {
	ClearDelay time.Duration // Visual delay before collapsing cleared rows
}

// DefaultTiming returns the default timing configuration.
func DefaultTiming() TimingConfig {
	return TimingConfig{
		ClearDelay: 300 * time.Millisecond,
	}
}

// TimingFromEnv returns timing configuration with environment overrides.
func TimingFromEnv() TimingConfig {
	cfg := DefaultTiming()

	if d := getEnvDuration("CLEAR_DELAY", 0); d > 0 {
		cfg.ClearDelay = d
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string // Session event journal (empty disables it)
	HighScoreDir string // Directory for the best-score file
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "events.jsonl",
		HighScoreDir: ".",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EventLogPath = path
	}
	if dir := os.Getenv("HIGHSCORE_DIR"); dir != "" {
		cfg.HighScoreDir = dir
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Board  BoardConfig
	Timing TimingConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Board:  BoardFromEnv(),
		Timing: TimingFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
