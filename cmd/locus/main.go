package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/locus/locus/internal/client"
	"github.com/locus/locus/internal/config"
	"github.com/locus/locus/internal/daemon"
	"github.com/locus/locus/internal/tracker"
	"github.com/locus/locus/pkg/detector"
	"github.com/locus/locus/pkg/utils"
	"github.com/locus/locus/pkg/window"
	"github.com/locus/locus/version"
)

const appName = "locus"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command, args := os.Args[1], os.Args[2:]

	var err error
	switch command {
	case "start":
		err = startDaemon(args)
	case "serve":
		err = serveDaemon(args)
	case "watch":
		err = watch(args)
	case "probe":
		err = probeOnce(args)
	case "stream-start":
		err = streamCommand(args, true)
	case "stream-stop":
		err = streamCommand(args, false)
	case "stop":
		err = stopDaemon(args)
	case "status":
		err = showStatus(args)
	case "events":
		err = showEvents(args)
	case "errors":
		err = showErrors(args)
	case "display-server":
		showDisplayServer()
	case "version":
		fmt.Printf("%s version %s\n", appName, version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func printUsage() {
	fmt.Printf(`locus - Active window title streamer

Usage:
  locus <command> [options]

Commands:
  start              Start the daemon in the background
  serve              Run the daemon with its web API in the foreground
  watch              Print window changes as JSON lines until interrupted
  probe              Detect the focused window once
  stream-start       Ask the running daemon to start streaming
  stream-stop        Ask the running daemon to stop streaming
  stop               Stop the daemon
  status             Show daemon and stream status
  events             Show recent window changes from the journal
  errors             Show recent publish failures
  display-server     Show whether this session can be streamed
  version            Show version information
  help               Show this help message

Options:
  --interval DURATION   Poll interval (50ms-10s, default 300ms)
  --host HOST           Web API host
  --port PORT           Web API port
  --config FILE         YAML configuration file
  --autostart           Start streaming as soon as the daemon is up
  --limit N             Entries to show for events and errors (default 20)
  --clear               Empty the journal (events only)

Examples:
  locus start --autostart
  locus watch --interval 500ms
  locus stream-stop
  locus status
  locus events --limit 5

Environment Variables:
  LOCUS_CONFIG               YAML configuration file
  LOCUS_POLL_INTERVAL        Poll interval in milliseconds (50-10000)
  LOCUS_AUTOSTART            Start streaming with the daemon (true/false)
  LOCUS_SCRIPT_TOOL          AppleScript interpreter (default osascript)
  LOCUS_MAX_LOGGED_FAILURES  Consecutive probe failures to log
  LOCUS_PID_FILE             PID file path
  LOCUS_LOG_FILE             Daemon log file path
  LOCUS_JOURNAL_SIZE         In-memory journal entries to keep
  LOCUS_WEB_HOST             Web API host
  LOCUS_WEB_PORT             Web API port

Version: %s
`, version.Version)
}

// loadConfig parses the shared flags, plus any registered by extra, and
// layers them over the file and environment configuration
func loadConfig(command string, args []string, extra ...func(*pflag.FlagSet)) (*config.Config, error) {
	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	interval := fs.Duration("interval", 0, "poll interval")
	host := fs.String("host", "", "web API host")
	port := fs.Int("port", 0, "web API port")
	configPath := fs.String("config", "", "YAML configuration file")
	autostart := fs.Bool("autostart", false, "start streaming with the daemon")
	for _, register := range extra {
		register(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("interval") {
		if err := cfg.SetPollInterval(*interval); err != nil {
			return nil, err
		}
	}
	if fs.Changed("host") {
		cfg.Web.Host = *host
	}
	if fs.Changed("port") {
		if err := cfg.SetWebPort(*port); err != nil {
			return nil, err
		}
	}
	if fs.Changed("autostart") {
		cfg.Stream.Autostart = *autostart
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newDetector(ctx context.Context, cfg *config.Config) (*window.Chain, error) {
	return detector.New(ctx, detector.Options{
		ScriptTool:        cfg.Probe.ScriptTool,
		MaxLoggedFailures: cfg.Probe.MaxLoggedFailures,
	})
}

func startDaemon(args []string) error {
	cfg, err := loadConfig("start", args)
	if err != nil {
		return err
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon is already running (PID: %d)", pid)
	}

	pid, err = daemon.Detach(append([]string{"serve"}, args...))
	if err != nil {
		return err
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", pid)
	fmt.Printf("Web API available at: %s\n", cfg.BaseURL())
	fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
	return nil
}

func serveDaemon(args []string) error {
	cfg, err := loadConfig("serve", args)
	if err != nil {
		return err
	}

	if daemon.IsChild() {
		if logFile, err := daemon.RedirectLog(cfg.Daemon.LogFile); err == nil {
			defer logFile.Close()
		}
	}

	return runServe(cfg)
}

func watch(args []string) error {
	cfg, err := loadConfig("watch", args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	det, err := newDetector(ctx, cfg)
	if err != nil {
		return err
	}
	defer det.Close()

	log.Printf("Watching %s windows every %v (Ctrl+C to stop)", det.DisplayServer(), cfg.Stream.PollInterval)

	loop := tracker.NewLoop(det, tracker.NewJSONSink(os.Stdout), cfg.Stream.PollInterval, tracker.NewToken())
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func probeOnce(args []string) error {
	cfg, err := loadConfig("probe", args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	det, err := newDetector(ctx, cfg)
	if err != nil {
		return err
	}
	defer det.Close()

	info := det.Probe(ctx)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{
		"event":          window.EventActiveWindowTitle,
		"payload":        info,
		"method":         det.LastMethod(),
		"display_server": det.DisplayServer(),
	})
}

func streamCommand(args []string, start bool) error {
	cfg, err := loadConfig("stream", args)
	if err != nil {
		return err
	}

	c := client.New(cfg.BaseURL())

	var state string
	if start {
		state, err = c.StartStream()
	} else {
		state, err = c.StopStream()
	}
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}

	fmt.Printf("Stream: %s\n", state)
	return nil
}

func stopDaemon(args []string) error {
	cfg, err := loadConfig("stop", args)
	if err != nil {
		return err
	}
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	fmt.Println("Daemon stopped successfully")
	return nil
}

func showStatus(args []string) error {
	cfg, err := loadConfig("status", args)
	if err != nil {
		return err
	}
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Status: Not running")
		return nil
	}

	fmt.Printf("Status: Running (PID: %d)\n", pid)

	c := client.New(cfg.BaseURL())
	status, err := c.Status()
	if err != nil {
		fmt.Printf("\nCould not reach web API at %s: %v\n", cfg.BaseURL(), err)
		return nil
	}

	fmt.Printf("Stream: %s\n", status.State)
	fmt.Printf("Poll Interval: %v\n", time.Duration(status.PollIntervalMS)*time.Millisecond)
	fmt.Printf("Display Server: %s\n", status.DisplayServer)
	fmt.Printf("Events Published: %d\n", status.Published)
	fmt.Printf("SSE Subscribers: %d\n", status.Subscribers)
	fmt.Printf("Uptime: %s\n", status.Uptime)
	if status.StreamingFor != "" {
		fmt.Printf("Streaming For: %s\n", status.StreamingFor)
	}

	if info, ok, err := c.Current(); err == nil && ok {
		fmt.Printf("\nCurrent Window:\n")
		fmt.Printf("  Class: %s\n", info.Class)
		fmt.Printf("  Title: %s\n", utils.Truncate(info.Title, 80))
	}
	return nil
}

func showEvents(args []string) error {
	var limit int
	var clearJournal bool
	cfg, err := loadConfig("events", args, func(fs *pflag.FlagSet) {
		fs.IntVar(&limit, "limit", 20, "entries to show")
		fs.BoolVar(&clearJournal, "clear", false, "empty the journal")
	})
	if err != nil {
		return err
	}

	c := client.New(cfg.BaseURL())
	if clearJournal {
		if err := c.ClearEvents(); err != nil {
			return fmt.Errorf("is the daemon running? %w", err)
		}
		fmt.Println("Journal cleared")
		return nil
	}

	changes, err := c.Events(limit)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	if len(changes) == 0 {
		fmt.Println("No window changes recorded")
		return nil
	}

	for _, change := range changes {
		fmt.Printf("%s  %-20s %s\n",
			change.Timestamp.Local().Format("15:04:05.000"),
			utils.Truncate(change.Class, 20),
			utils.Truncate(change.Title, 80))
	}
	return nil
}

func showErrors(args []string) error {
	var limit int
	cfg, err := loadConfig("errors", args, func(fs *pflag.FlagSet) {
		fs.IntVar(&limit, "limit", 20, "entries to show")
	})
	if err != nil {
		return err
	}

	logs, err := client.New(cfg.BaseURL()).Errors(limit)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	if len(logs) == 0 {
		fmt.Println("No errors recorded")
		return nil
	}

	for _, entry := range logs {
		fmt.Printf("%s  [%s] %s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Source,
			entry.ErrorMsg)
	}
	return nil
}

func showDisplayServer() {
	supported := detector.SupportedDisplayServer()
	fmt.Printf("Display Server: %s\n", detector.DetectDisplayServer())
	fmt.Printf("Supported: %v\n", supported)
	if !supported {
		os.Exit(1)
	}
}
