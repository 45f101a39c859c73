package wayland

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/locus/locus/pkg/window"
)

type fakeRunner map[string]string

func (f fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	out, ok := f[key]
	if !ok {
		return "", &window.ExternalToolError{Tool: name, Message: "exit status 1"}
	}
	return out, nil
}

func TestDetectCompositor(t *testing.T) {
	tests := []struct {
		name    string
		running fakeRunner
		want    string
	}{
		{"sway", fakeRunner{"pgrep -x sway": "101"}, "sway"},
		{"hyprland", fakeRunner{"pgrep -x Hyprland": "202"}, "hyprland"},
		{"gnome", fakeRunner{"pgrep -x gnome-shell": "303"}, "gnome"},
		{"kde", fakeRunner{"pgrep -x kwin_wayland": "404"}, "kde"},
		{"nothing running", fakeRunner{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(context.Background(), tt.running)
			if d.Compositor() != tt.want {
				t.Errorf("Compositor() = %s, want %s", d.Compositor(), tt.want)
			}
			if d.IsAvailable() != (tt.want != "unknown") {
				t.Errorf("IsAvailable() = %v", d.IsAvailable())
			}
		})
	}
}

func TestStrategies(t *testing.T) {
	d := &Detector{compositor: "hyprland"}
	strategies := d.Strategies()
	if len(strategies) != 2 || strategies[0].Name != "hyprctl" || strategies[1].Name != "xwayland" {
		t.Errorf("Strategies() = %v", strategies)
	}

	d = &Detector{compositor: "unknown"}
	if strategies := d.Strategies(); len(strategies) != 1 || strategies[0].Name != "xwayland" {
		t.Errorf("Strategies() for unknown compositor = %v", strategies)
	}

	if d.Chain().DisplayServer() != "wayland" {
		t.Errorf("DisplayServer() = %s, want wayland", d.Chain().DisplayServer())
	}
}

func TestParseSwayTree(t *testing.T) {
	tree := `{
		"name": "root", "focused": false,
		"nodes": [{
			"name": "1", "focused": false,
			"nodes": [
				{"name": "~/src - fish", "app_id": "foot", "focused": false, "nodes": []},
				{"name": "Docs", "app_id": null, "focused": true, "nodes": [],
				 "window_properties": {"class": "firefox"}}
			]
		}]
	}`

	info, err := parseSwayTree(tree)
	if err != nil {
		t.Fatalf("parseSwayTree() error: %v", err)
	}
	if info != (window.WindowInfo{Class: "firefox", Title: "Docs"}) {
		t.Errorf("parseSwayTree() = %+v", info)
	}

	if _, err := parseSwayTree(`{"name": "root", "focused": false}`); !errors.Is(err, window.ErrNoActiveWindow) {
		t.Errorf("tree without focus error = %v, want ErrNoActiveWindow", err)
	}
	if _, err := parseSwayTree("not json"); !window.IsExternalToolError(err) {
		t.Errorf("invalid JSON error = %v, want ExternalToolError", err)
	}
}

func TestParseSwayTreeFloating(t *testing.T) {
	tree := `{"name": "root", "nodes": [], "floating_nodes": [{"name": "Picture-in-Picture", "app_id": "mpv", "focused": true}]}`

	info, err := parseSwayTree(tree)
	if err != nil {
		t.Fatalf("parseSwayTree() error: %v", err)
	}
	if info.Class != "mpv" {
		t.Errorf("Class = %s, want mpv", info.Class)
	}
}

func TestParseHyprlandWindow(t *testing.T) {
	info, err := parseHyprlandWindow(`{"address": "0x55d1", "class": "kitty", "title": "htop", "pid": 4242}`)
	if err != nil {
		t.Fatalf("parseHyprlandWindow() error: %v", err)
	}
	if info != (window.WindowInfo{Class: "kitty", Title: "htop"}) {
		t.Errorf("parseHyprlandWindow() = %+v", info)
	}

	if _, err := parseHyprlandWindow(`{}`); !errors.Is(err, window.ErrNoActiveWindow) {
		t.Errorf("empty window error = %v, want ErrNoActiveWindow", err)
	}
}

func TestParseGdbusEval(t *testing.T) {
	got, err := parseGdbusEval("(true, 'firefox|Docs')\n")
	if err != nil || got != "firefox|Docs" {
		t.Errorf("parseGdbusEval() = %q, %v", got, err)
	}

	if _, err := parseGdbusEval("(false, '')"); err == nil {
		t.Error("parseGdbusEval() should reject a refused Eval")
	}
}

func TestProbeGnome(t *testing.T) {
	key := strings.Join([]string{"gdbus", "call", "--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.Eval",
		gnomeEvalScript}, " ")
	d := &Detector{runner: fakeRunner{key: "(true, 'org.gnome.Nautilus|Downloads')"}, compositor: "gnome"}

	info := d.Chain().Probe(context.Background())
	if info != (window.WindowInfo{Class: "org.gnome.Nautilus", Title: "Downloads"}) {
		t.Errorf("Probe() = %+v", info)
	}
}

func TestProbeXWayland(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	d := &Detector{runner: fakeRunner{
		"xprop -root _NET_ACTIVE_WINDOW": "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x80032b",
		"xprop -id 0x80032b WM_NAME":     `WM_NAME(STRING) = "Steam"`,
		"xprop -id 0x80032b WM_CLASS":    `WM_CLASS(STRING) = "steamwebhelper", "steam"`,
	}}

	info, err := d.probeXWayland(context.Background())
	if err != nil {
		t.Fatalf("probeXWayland() error: %v", err)
	}
	if info != (window.WindowInfo{Class: "steam", Title: "Steam"}) {
		t.Errorf("probeXWayland() = %+v", info)
	}
}

func TestProbeXWaylandWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	d := &Detector{runner: fakeRunner{}}
	if _, err := d.probeXWayland(context.Background()); !errors.Is(err, window.ErrNoActiveWindow) {
		t.Errorf("probeXWayland() error = %v, want ErrNoActiveWindow", err)
	}
}

func TestParseWMClass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Standard format", `WM_CLASS(STRING) = "Navigator", "Firefox"`, "Firefox"},
		{"Single class", `WM_CLASS(STRING) = "kitty"`, "kitty"},
		{"Empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := parseWMClass(tt.input); result != tt.expected {
				t.Errorf("parseWMClass(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDetectorInterface(t *testing.T) {
	var _ window.Detector = NewDetector(context.Background(), fakeRunner{})
}
