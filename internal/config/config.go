package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EnvDBPath names the environment variable that overrides the default
// database location.
const EnvDBPath = "GROUPSCHED_DB"

// DefaultMaxTicks is the longest horizon, in ticks, simulated unless a
// caller raises the limit.
const DefaultMaxTicks = 100000

// ServerConfig holds configuration for the groupsched server.
type ServerConfig struct {
	Addr      string // Listen address (default ":8080")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	DBPath    string // SQLite database path (default ~/.groupsched/groupsched.db, ":memory:" for testing)
	MaxTicks  int    // Largest horizon, in ticks, a single request may simulate
	MaxActive int    // Simulations allowed to run at once (0 = unlimited)
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		MaxTicks:  DefaultMaxTicks,
		MaxActive: runtime.NumCPU(),
	}
}

// ResolveDBPath returns path if set, then $GROUPSCHED_DB, then
// ~/.groupsched/groupsched.db, creating the directory for the last case.
func ResolveDBPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv(EnvDBPath); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".groupsched")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return filepath.Join(dir, "groupsched.db"), nil
}
