package wayland

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/locus/locus/pkg/script"
	"github.com/locus/locus/pkg/window"
)

// DisplayServer is the windowing system name reported by the Wayland chain
const DisplayServer = "wayland"

type compositor struct {
	process string
	name    string
}

var compositors = []compositor{
	{"sway", "sway"},
	{"Hyprland", "hyprland"},
	{"gnome-shell", "gnome"},
	{"kwin_wayland", "kde"},
}

const gnomeEvalScript = `
try {
	let win = global.display.get_focus_window();
	win ? (win.get_wm_class() || '') + '|' + (win.get_title() || '') : '';
} catch (e) {
	'';
}
`

const kdeScript = `
var clients = workspace.clientList();
for (var i = 0; i < clients.length; i++) {
	if (clients[i].active) {
		print(clients[i].resourceClass + "|" + clients[i].caption);
	}
}
`

// Detector probes the focused window through the running compositor's IPC
type Detector struct {
	runner     script.Runner
	compositor string
}

// NewDetector creates the Wayland fallback chain for the running compositor
func NewDetector(ctx context.Context, runner script.Runner) *window.Chain {
	return New(ctx, runner).Chain()
}

// New detects the compositor and creates a Detector
func New(ctx context.Context, runner script.Runner) *Detector {
	return &Detector{
		runner:     runner,
		compositor: detectCompositor(ctx, runner),
	}
}

func detectCompositor(ctx context.Context, runner script.Runner) string {
	for _, c := range compositors {
		if _, err := runner.Run(ctx, "pgrep", "-x", c.process); err == nil {
			return c.name
		}
	}
	return "unknown"
}

// Compositor returns the detected compositor name
func (d *Detector) Compositor() string {
	return d.compositor
}

// IsAvailable checks if the compositor is one we know how to query
func (d *Detector) IsAvailable() bool {
	return d.compositor != "unknown"
}

// Chain returns the strategies wrapped in a window.Chain
func (d *Detector) Chain() *window.Chain {
	return window.NewChain(DisplayServer, d.Strategies()...)
}

// Strategies puts the compositor's own IPC first and XWayland last
func (d *Detector) Strategies() []window.Strategy {
	var strategies []window.Strategy

	switch d.compositor {
	case "sway":
		strategies = append(strategies, window.Strategy{Name: "swaymsg", Probe: d.probeSway, Accept: acceptTitled})
	case "hyprland":
		strategies = append(strategies, window.Strategy{Name: "hyprctl", Probe: d.probeHyprland, Accept: acceptTitled})
	case "gnome":
		strategies = append(strategies, window.Strategy{Name: "gnome-shell", Probe: d.probeGnome, Accept: acceptTitled})
	case "kde":
		strategies = append(strategies, window.Strategy{Name: "kwin", Probe: d.probeKDE, Accept: acceptTitled})
	}

	return append(strategies, window.Strategy{Name: "xwayland", Probe: d.probeXWayland, Accept: acceptTitled})
}

func (d *Detector) probeSway(ctx context.Context) (window.WindowInfo, error) {
	out, err := d.runner.Run(ctx, "swaymsg", "-t", "get_tree")
	if err != nil {
		return window.WindowInfo{}, err
	}
	return parseSwayTree(out)
}

func (d *Detector) probeHyprland(ctx context.Context) (window.WindowInfo, error) {
	out, err := d.runner.Run(ctx, "hyprctl", "activewindow", "-j")
	if err != nil {
		return window.WindowInfo{}, err
	}
	return parseHyprlandWindow(out)
}

// probeGnome needs Shell.Eval, which GNOME 41+ only allows in unsafe mode
func (d *Detector) probeGnome(ctx context.Context) (window.WindowInfo, error) {
	out, err := d.runner.Run(ctx, "gdbus", "call", "--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.Eval",
		gnomeEvalScript)
	if err != nil {
		return window.WindowInfo{}, err
	}

	result, err := parseGdbusEval(out)
	if err != nil {
		return window.WindowInfo{}, err
	}
	return window.ParseTaggedPair(result)
}

func (d *Detector) probeKDE(ctx context.Context) (window.WindowInfo, error) {
	out, err := d.runner.Run(ctx, "qdbus", "org.kde.KWin", "/Scripting", "org.kde.kwin.Scripting.loadScript", kdeScript)
	if err != nil {
		return window.WindowInfo{}, err
	}
	return window.ParseTaggedPair(out)
}

// probeXWayland reads the active X client through xprop; native Wayland
// windows are invisible to it
func (d *Detector) probeXWayland(ctx context.Context) (window.WindowInfo, error) {
	if os.Getenv("DISPLAY") == "" {
		return window.WindowInfo{}, fmt.Errorf("DISPLAY not set (XWayland not available): %w", window.ErrNoActiveWindow)
	}

	out, err := d.runner.Run(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW")
	if err != nil {
		return window.WindowInfo{}, err
	}

	windowID := ""
	if _, id, ok := strings.Cut(out, "# "); ok {
		windowID = strings.TrimSpace(id)
	}
	if windowID == "" || windowID == "0x0" {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}

	nameOut, _ := d.runner.Run(ctx, "xprop", "-id", windowID, "WM_NAME")
	classOut, _ := d.runner.Run(ctx, "xprop", "-id", windowID, "WM_CLASS")

	return window.WindowInfo{
		Class: parseWMClass(classOut),
		Title: parseXPropString(nameOut),
	}, nil
}

func acceptTitled(info window.WindowInfo) bool {
	return info.Title != "" && info.Class != ""
}

type swayNode struct {
	Name          string     `json:"name"`
	AppID         string     `json:"app_id"`
	Focused       bool       `json:"focused"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
	WindowProps   struct {
		Class string `json:"class"`
	} `json:"window_properties"`
}

// parseSwayTree finds the focused node in `swaymsg -t get_tree` output
func parseSwayTree(output string) (window.WindowInfo, error) {
	var root swayNode
	if err := json.Unmarshal([]byte(output), &root); err != nil {
		return window.WindowInfo{}, &window.ExternalToolError{Tool: "swaymsg", Message: "invalid tree JSON", Err: err}
	}

	node := findFocused(&root)
	if node == nil {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}

	class := node.AppID
	if class == "" {
		class = node.WindowProps.Class
	}
	return window.WindowInfo{Class: class, Title: node.Name}, nil
}

func findFocused(node *swayNode) *swayNode {
	if node.Focused {
		return node
	}
	for i := range node.Nodes {
		if found := findFocused(&node.Nodes[i]); found != nil {
			return found
		}
	}
	for i := range node.FloatingNodes {
		if found := findFocused(&node.FloatingNodes[i]); found != nil {
			return found
		}
	}
	return nil
}

// parseHyprlandWindow parses `hyprctl activewindow -j`
func parseHyprlandWindow(output string) (window.WindowInfo, error) {
	var active struct {
		Class string `json:"class"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(output), &active); err != nil {
		return window.WindowInfo{}, &window.ExternalToolError{Tool: "hyprctl", Message: "invalid window JSON", Err: err}
	}
	if active.Class == "" && active.Title == "" {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}
	return window.WindowInfo{Class: active.Class, Title: active.Title}, nil
}

// parseGdbusEval unwraps gdbus output like: (true, 'firefox|Docs')
func parseGdbusEval(output string) (string, error) {
	result := strings.TrimSpace(output)
	if !strings.HasPrefix(result, "(true,") {
		return "", &window.ExternalToolError{Tool: "gdbus", Message: "Shell.Eval refused"}
	}
	result = strings.TrimPrefix(result, "(true,")
	result = strings.TrimSuffix(result, ")")
	return strings.Trim(strings.TrimSpace(result), `'"`), nil
}

// parseXPropString parses xprop string output like: WM_NAME(STRING) = "title"
func parseXPropString(output string) string {
	_, value, ok := strings.Cut(output, "=")
	if !ok {
		return ""
	}
	return strings.Trim(strings.TrimSpace(value), "\"")
}

// parseWMClass extracts class from WM_CLASS output
func parseWMClass(output string) string {
	_, value, ok := strings.Cut(output, "=")
	if !ok {
		return ""
	}
	classes := strings.Split(strings.TrimSpace(value), ",")
	return strings.Trim(classes[len(classes)-1], "\" ")
}
