package x11

import (
	"context"
	"strconv"
	"strings"

	"github.com/locus/locus/pkg/script"
	"github.com/locus/locus/pkg/window"
)

// DisplayServer is the windowing system name reported by the X11 chain
const DisplayServer = "x11"

// Detector probes the focused X11 window
type Detector struct {
	runner     script.Runner
	xconn      *conn
	hasXdotool bool
	hasWmctrl  bool
}

// NewDetector creates the X11 fallback chain
func NewDetector(runner script.Runner) *window.Chain {
	d := New(runner)
	return d.Chain()
}

// New creates an X11 detector, checking which helper tools are installed
func New(runner script.Runner) *Detector {
	return &Detector{
		runner:     runner,
		xconn:      &conn{},
		hasXdotool: script.CommandExists("xdotool"),
		hasWmctrl:  script.CommandExists("wmctrl"),
	}
}

// IsAvailable checks if any X11 strategy can run
func (d *Detector) IsAvailable() bool {
	return d.hasXdotool || d.hasWmctrl || d.xconn.available()
}

// Chain returns the strategies wrapped in a window.Chain
func (d *Detector) Chain() *window.Chain {
	return window.NewChain(DisplayServer, d.Strategies()...).WithCloser(d.xconn.Close)
}

// Strategies returns the ordered fallback list. The X protocol query needs no
// child process; the helper tools follow when it fails.
func (d *Detector) Strategies() []window.Strategy {
	strategies := []window.Strategy{
		{Name: "native", Probe: d.probeNative, Accept: acceptTitled},
	}
	if d.hasXdotool {
		strategies = append(strategies, window.Strategy{Name: "xdotool", Probe: d.probeXdotool, Accept: acceptTitled})
	}
	if d.hasWmctrl && d.hasXdotool {
		strategies = append(strategies, window.Strategy{Name: "wmctrl", Probe: d.probeWmctrl, Accept: acceptTitled})
	}
	if d.hasXdotool {
		strategies = append(strategies, window.Strategy{Name: "basic-app-name", Probe: d.probeBasic})
	}
	return strategies
}

func (d *Detector) probeNative(ctx context.Context) (window.WindowInfo, error) {
	return d.xconn.focused()
}

// probeXdotool uses xdotool for the title and xprop for WM_CLASS (works for Flatpak apps)
func (d *Detector) probeXdotool(ctx context.Context) (window.WindowInfo, error) {
	windowID, err := d.activeWindowID(ctx)
	if err != nil {
		return window.WindowInfo{}, err
	}

	title, err := d.runner.Run(ctx, "xdotool", "getwindowname", windowID)
	if err != nil {
		return window.WindowInfo{}, err
	}

	class := ""
	if out, err := d.runner.Run(ctx, "xprop", "-id", windowID, "WM_CLASS"); err == nil {
		class = parseWMClass(out)
	}
	if class == "" {
		class = d.processName(ctx, windowID)
	}
	if class == "" {
		class = "Unknown"
	}

	return window.WindowInfo{Class: class, Title: title}, nil
}

// probeWmctrl matches the active window ID against the wmctrl window list
func (d *Detector) probeWmctrl(ctx context.Context) (window.WindowInfo, error) {
	list, err := d.runner.Run(ctx, "wmctrl", "-l", "-p")
	if err != nil {
		return window.WindowInfo{}, err
	}

	windowID, err := d.activeWindowID(ctx)
	if err != nil {
		return window.WindowInfo{}, err
	}

	pid, title, ok := findWmctrlWindow(list, windowID)
	if !ok {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}

	class := "Unknown"
	if name, err := d.runner.Run(ctx, "ps", "-p", pid, "-o", "comm="); err == nil && name != "" {
		class = name
	}
	return window.WindowInfo{Class: class, Title: title}, nil
}

func (d *Detector) probeBasic(ctx context.Context) (window.WindowInfo, error) {
	windowID, err := d.activeWindowID(ctx)
	if err != nil {
		return window.WindowInfo{}, err
	}
	name := d.processName(ctx, windowID)
	if name == "" {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}
	return window.WindowInfo{Class: name, Title: name + " - Active"}, nil
}

func (d *Detector) activeWindowID(ctx context.Context) (string, error) {
	id, err := d.runner.Run(ctx, "xdotool", "getactivewindow")
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", window.ErrNoActiveWindow
	}
	return id, nil
}

// processName may fail for sandboxed apps; an empty string means unknown
func (d *Detector) processName(ctx context.Context, windowID string) string {
	pid, err := d.runner.Run(ctx, "xdotool", "getwindowpid", windowID)
	if err != nil || pid == "" {
		return ""
	}
	name, err := d.runner.Run(ctx, "ps", "-p", pid, "-o", "comm=")
	if err != nil {
		return ""
	}
	return name
}

func acceptTitled(info window.WindowInfo) bool {
	return info.Title != "" && info.Class != ""
}

// parseWMClass extracts the class name from xprop WM_CLASS output
func parseWMClass(output string) string {
	parts := strings.SplitN(output, "=", 2)
	if len(parts) < 2 {
		return ""
	}

	classes := strings.Split(strings.TrimSpace(parts[1]), ",")
	className := strings.TrimSpace(classes[len(classes)-1])
	return strings.Trim(className, "\" ")
}

// findWmctrlWindow finds windowID (decimal, from xdotool) in `wmctrl -l -p` output
// whose IDs are hexadecimal
func findWmctrlWindow(list, windowID string) (pid, title string, ok bool) {
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		if !sameWindowID(fields[0], windowID) {
			continue
		}
		return fields[2], strings.Join(fields[4:], " "), true
	}
	return "", "", false
}

// sameWindowID compares window IDs written in any base ("0x03a00007", "60817415")
func sameWindowID(a, b string) bool {
	x, err := strconv.ParseUint(a, 0, 32)
	if err != nil {
		return false
	}
	y, err := strconv.ParseUint(b, 0, 32)
	if err != nil {
		return false
	}
	return x == y
}
