package detector

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/locus/locus/pkg/integrations/macos"
	"github.com/locus/locus/pkg/integrations/wayland"
	"github.com/locus/locus/pkg/integrations/x11"
	"github.com/locus/locus/pkg/script"
	"github.com/locus/locus/pkg/window"
)

// Options tunes the detector chain
type Options struct {
	// ScriptTool is the AppleScript interpreter (default "osascript")
	ScriptTool string

	// MaxLoggedFailures bounds logging of consecutive total failures
	MaxLoggedFailures int

	// Runner spawns external tools; nil means os/exec
	Runner script.Runner
}

// New creates the fallback chain for the current platform and display server
func New(ctx context.Context, opts Options) (*window.Chain, error) {
	runner := opts.Runner
	if runner == nil {
		runner = script.NewExecRunner()
	}

	var chain *window.Chain
	switch ds := DetectDisplayServer(); ds {
	case macos.DisplayServer:
		chain = macos.NewDetector(runner, opts.ScriptTool)
	case wayland.DisplayServer:
		chain = wayland.NewDetector(ctx, runner)
	case x11.DisplayServer:
		chain = x11.NewDetector(runner)
	default:
		return nil, fmt.Errorf("unsupported display server %q on %s", ds, runtime.GOOS)
	}

	if opts.MaxLoggedFailures > 0 {
		chain.SetMaxLoggedFailures(opts.MaxLoggedFailures)
	}
	return chain, nil
}

// DetectDisplayServer returns "quartz", "wayland", "x11" or "unknown"
func DetectDisplayServer() string {
	return displayServerFor(runtime.GOOS)
}

func displayServerFor(goos string) string {
	if goos == "darwin" {
		return macos.DisplayServer
	}

	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return wayland.DisplayServer
	}

	if sessionType == "x11" || x11Display != "" {
		return x11.DisplayServer
	}

	return "unknown"
}

// SupportedDisplayServer reports whether window titles can be streamed here
func SupportedDisplayServer() bool {
	return DetectDisplayServer() != "unknown"
}
