package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadFile merges a YAML config file over cfg. Keys missing from the file keep
// their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Variables that are already set win. Missing files are not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var existing []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load %v: %w", existing, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Stream configuration
	if pollInterval := os.Getenv("LOCUS_POLL_INTERVAL"); pollInterval != "" {
		if ms, err := strconv.Atoi(pollInterval); err == nil && ms > 0 {
			interval := time.Duration(ms) * time.Millisecond
			if interval >= cfg.Stream.MinPollInterval && interval <= cfg.Stream.MaxPollInterval {
				cfg.Stream.PollInterval = interval
			}
		}
	}

	if autostart := os.Getenv("LOCUS_AUTOSTART"); autostart != "" {
		if val, err := strconv.ParseBool(autostart); err == nil {
			cfg.Stream.Autostart = val
		}
	}

	// Probe configuration
	if tool := os.Getenv("LOCUS_SCRIPT_TOOL"); tool != "" {
		cfg.Probe.ScriptTool = tool
	}

	if maxFailures := os.Getenv("LOCUS_MAX_LOGGED_FAILURES"); maxFailures != "" {
		if n, err := strconv.Atoi(maxFailures); err == nil && n >= 0 {
			cfg.Probe.MaxLoggedFailures = n
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("LOCUS_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("LOCUS_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	// Journal configuration
	if size := os.Getenv("LOCUS_JOURNAL_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.Journal.MaxEntries = n
		}
	}

	// Web configuration
	if webHost := os.Getenv("LOCUS_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("LOCUS_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// Load builds the configuration: defaults, then .env, then the YAML file (path
// argument or LOCUS_CONFIG), then LOCUS_* variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("LOCUS_CONFIG")
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
