package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Stream configuration (polling loop)
	Stream StreamConfig `yaml:"stream"`

	// Probe configuration (window detection chain)
	Probe ProbeConfig `yaml:"probe"`

	// Daemon configuration
	Daemon DaemonConfig `yaml:"daemon"`

	// Journal configuration
	Journal JournalConfig `yaml:"journal"`

	// Web server configuration
	Web WebConfig `yaml:"web"`
}

// StreamConfig holds polling loop configuration
type StreamConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval"`     // How often to probe the focused window
	MinPollInterval time.Duration `yaml:"min_poll_interval"` // Minimum allowed poll interval
	MaxPollInterval time.Duration `yaml:"max_poll_interval"` // Maximum allowed poll interval
	Autostart       bool          `yaml:"autostart"`         // Start streaming when the daemon starts
}

// ProbeConfig holds window detection configuration
type ProbeConfig struct {
	ScriptTool        string `yaml:"script_tool"`         // AppleScript interpreter
	MaxLoggedFailures int    `yaml:"max_logged_failures"` // Consecutive total failures that get logged
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `yaml:"pid_file"` // Path to PID file for daemon management
	LogFile string `yaml:"log_file"` // Where the detached daemon writes its log
}

// JournalConfig holds the in-memory change journal configuration
type JournalConfig struct {
	MaxEntries int `yaml:"max_entries"` // Rows kept before the oldest are trimmed
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string `yaml:"host"` // Host to bind web server to
	Port int    `yaml:"port"` // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Stream: StreamConfig{
			PollInterval:    300 * time.Millisecond,
			MinPollInterval: 50 * time.Millisecond,
			MaxPollInterval: 10 * time.Second,
		},
		Probe: ProbeConfig{
			ScriptTool:        "osascript",
			MaxLoggedFailures: 5,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/locus-%d.pid", os.Getuid()),
			LogFile: fmt.Sprintf("/tmp/locus-%d.log", os.Getuid()),
		},
		Journal: JournalConfig{
			MaxEntries: 1000,
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(), // Default port based on user ID
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Stream.PollInterval < c.Stream.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Stream.PollInterval, c.Stream.MinPollInterval)
	}

	if c.Stream.PollInterval > c.Stream.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Stream.PollInterval, c.Stream.MaxPollInterval)
	}

	if c.Probe.ScriptTool == "" {
		return fmt.Errorf("script tool cannot be empty")
	}

	if c.Probe.MaxLoggedFailures < 0 {
		return fmt.Errorf("max logged failures cannot be negative")
	}

	if c.Journal.MaxEntries < 1 {
		return fmt.Errorf("journal must keep at least one entry, got %d", c.Journal.MaxEntries)
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Stream.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Stream.MinPollInterval)
	}
	if interval > c.Stream.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Stream.MaxPollInterval)
	}
	c.Stream.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// Address returns host:port for the web server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

// BaseURL returns the URL clients use to reach the daemon API
func (c *Config) BaseURL() string {
	return "http://" + c.Address()
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Stream:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Autostart: %v
  Probe:
    Script Tool: %s
    Max Logged Failures: %d
  Daemon:
    PID File: %s
    Log File: %s
  Journal:
    Max Entries: %d
  Web:
    Host: %s
    Port: %d`,
		c.Stream.PollInterval,
		c.Stream.MinPollInterval,
		c.Stream.MaxPollInterval,
		c.Stream.Autostart,
		c.Probe.ScriptTool,
		c.Probe.MaxLoggedFailures,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Journal.MaxEntries,
		c.Web.Host,
		c.Web.Port,
	)
}
