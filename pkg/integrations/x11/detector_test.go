package x11

import (
	"context"
	"strings"
	"testing"

	"github.com/locus/locus/pkg/script"
	"github.com/locus/locus/pkg/window"
)

// fakeRunner answers commands keyed by their full command line
type fakeRunner map[string]string

func (f fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	out, ok := f[key]
	if !ok {
		return "", &window.ExternalToolError{Tool: name, Message: "exit status 1"}
	}
	return out, nil
}

func newTestDetector(runner script.Runner) *Detector {
	return &Detector{
		runner:     runner,
		xconn:      &conn{},
		hasXdotool: true,
		hasWmctrl:  true,
	}
}

func TestNewDetector(t *testing.T) {
	detector := NewDetector(script.NewExecRunner())
	if detector == nil {
		t.Fatal("NewDetector() returned nil")
	}
	if detector.DisplayServer() != "x11" {
		t.Errorf("DisplayServer() = %s, want x11", detector.DisplayServer())
	}
	if err := detector.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	detector := New(script.NewExecRunner())

	available := detector.IsAvailable()
	t.Logf("X11 detector available: %v", available)
	t.Logf("Has xdotool: %v", detector.hasXdotool)
	t.Logf("Has wmctrl: %v", detector.hasWmctrl)
}

func TestStrategiesDependOnTools(t *testing.T) {
	tests := []struct {
		name       string
		hasXdotool bool
		hasWmctrl  bool
		want       []string
	}{
		{"no tools", false, false, []string{"native"}},
		{"xdotool only", true, false, []string{"native", "xdotool", "basic-app-name"}},
		{"wmctrl only", false, true, []string{"native"}},
		{"both", true, true, []string{"native", "xdotool", "wmctrl", "basic-app-name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Detector{xconn: &conn{}, hasXdotool: tt.hasXdotool, hasWmctrl: tt.hasWmctrl}
			got := d.Strategies()
			if len(got) != len(tt.want) {
				t.Fatalf("Strategies() has %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("strategy %d = %s, want %s", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestProbeXdotool(t *testing.T) {
	runner := fakeRunner{
		"xdotool getactivewindow":        "60817415",
		"xdotool getwindowname 60817415": "main.go - locus - Visual Studio Code",
		"xprop -id 60817415 WM_CLASS":    `WM_CLASS(STRING) = "code", "Code"`,
	}
	d := newTestDetector(runner)

	info, err := d.probeXdotool(context.Background())
	if err != nil {
		t.Fatalf("probeXdotool() error: %v", err)
	}
	want := window.WindowInfo{Class: "Code", Title: "main.go - locus - Visual Studio Code"}
	if info != want {
		t.Errorf("probeXdotool() = %+v, want %+v", info, want)
	}
}

func TestProbeXdotoolFallsBackToProcessName(t *testing.T) {
	runner := fakeRunner{
		"xdotool getactivewindow":  "42",
		"xdotool getwindowname 42": "Spotify Premium",
		"xdotool getwindowpid 42":  "1234",
		"ps -p 1234 -o comm=":      "spotify",
	}
	d := newTestDetector(runner)

	info, err := d.probeXdotool(context.Background())
	if err != nil {
		t.Fatalf("probeXdotool() error: %v", err)
	}
	if info.Class != "spotify" {
		t.Errorf("Class = %s, want spotify", info.Class)
	}
}

func TestProbeWmctrl(t *testing.T) {
	runner := fakeRunner{
		"wmctrl -l -p": strings.Join([]string{
			"0x01e00003  0 2211   host Desktop",
			"0x03a00007  0 4321   host Inbox - Thunderbird",
		}, "\n"),
		"xdotool getactivewindow": "60817415",
		"ps -p 4321 -o comm=":     "thunderbird",
	}
	d := newTestDetector(runner)

	info, err := d.probeWmctrl(context.Background())
	if err != nil {
		t.Fatalf("probeWmctrl() error: %v", err)
	}
	want := window.WindowInfo{Class: "thunderbird", Title: "Inbox - Thunderbird"}
	if info != want {
		t.Errorf("probeWmctrl() = %+v, want %+v", info, want)
	}
}

func TestProbeBasic(t *testing.T) {
	runner := fakeRunner{
		"xdotool getactivewindow": "42",
		"xdotool getwindowpid 42": "99",
		"ps -p 99 -o comm=":       "gimp",
	}
	d := newTestDetector(runner)

	info, err := d.probeBasic(context.Background())
	if err != nil {
		t.Fatalf("probeBasic() error: %v", err)
	}
	if info != (window.WindowInfo{Class: "gimp", Title: "gimp - Active"}) {
		t.Errorf("probeBasic() = %+v", info)
	}

	if _, err := newTestDetector(fakeRunner{}).probeBasic(context.Background()); err == nil {
		t.Error("probeBasic() without xdotool output should fail")
	}
}

func TestScriptedChainFallsThrough(t *testing.T) {
	runner := fakeRunner{
		"xdotool getactivewindow":  "42",
		"xdotool getwindowname 42": "",
		"xdotool getwindowpid 42":  "7",
		"ps -p 7 -o comm=":         "xterm",
	}
	d := newTestDetector(runner)

	chain := window.NewChain(DisplayServer, d.Strategies()[1:]...)
	info := chain.Probe(context.Background())
	if info != (window.WindowInfo{Class: "xterm", Title: "xterm - Active"}) {
		t.Errorf("Probe() = %+v", info)
	}
	if chain.LastMethod() != "basic-app-name" {
		t.Errorf("LastMethod() = %s, want basic-app-name", chain.LastMethod())
	}
}

func TestParseWMClass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Standard format",
			input:    `WM_CLASS(STRING) = "Navigator", "Firefox"`,
			expected: "Firefox",
		},
		{
			name:     "Single class",
			input:    `WM_CLASS(STRING) = "kitty", "kitty"`,
			expected: "kitty",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "No equals sign",
			input:    "WM_CLASS(STRING)",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseWMClass(tt.input)
			if result != tt.expected {
				t.Errorf("parseWMClass(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClassFromWMClass(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Navigator\x00Firefox\x00", "Firefox"},
		{"kitty\x00", "kitty"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := classFromWMClass([]byte(tt.raw)); got != tt.want {
			t.Errorf("classFromWMClass(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSameWindowID(t *testing.T) {
	if !sameWindowID("0x03a00007", "60817415") {
		t.Error("hex and decimal forms of the same ID should match")
	}
	if sameWindowID("0x03a00008", "60817415") {
		t.Error("different IDs should not match")
	}
	if sameWindowID("desktop", "1") {
		t.Error("non-numeric IDs should not match")
	}
}

func TestDetectorInterface(t *testing.T) {
	var _ window.Detector = NewDetector(script.NewExecRunner())
}
