package macos

import (
	"context"
	"strings"

	"github.com/locus/locus/pkg/script"
	"github.com/locus/locus/pkg/window"
)

// DisplayServer is the windowing system name reported by the macOS chain
const DisplayServer = "quartz"

const unknownApplication = "Unknown Application"

// NativeQuery asks the window server for the frontmost application's name
type NativeQuery func() (string, error)

// Detector holds the macOS probing strategies
type Detector struct {
	native NativeQuery
	script *script.AppleScript
}

// NewDetector creates the macOS fallback chain using the window list and tool
// (normally "osascript") run through runner
func NewDetector(runner script.Runner, tool string) *window.Chain {
	return New(frontmostApplicationName, runner, tool).Chain()
}

// New creates a Detector with an explicit native query
func New(native NativeQuery, runner script.Runner, tool string) *Detector {
	return &Detector{
		native: native,
		script: script.NewAppleScript(runner, tool),
	}
}

// Chain returns the strategies wrapped in a window.Chain, cheapest first
func (d *Detector) Chain() *window.Chain {
	return window.NewChain(DisplayServer, d.Strategies()...)
}

// Strategies returns the ordered fallback list
func (d *Detector) Strategies() []window.Strategy {
	return []window.Strategy{
		{Name: "native", Probe: d.probeNative, Accept: acceptNative},
		{Name: "enhanced-script", Probe: d.probeEnhanced, Accept: acceptEnhanced},
		{Name: "browser-tab", Probe: d.probeBrowserTab, Accept: acceptBrowserTab},
		{Name: "general-script", Probe: d.probeGeneral},
		{Name: "basic-app-name", Probe: d.probeBasic},
	}
}

func (d *Detector) probeNative(ctx context.Context) (window.WindowInfo, error) {
	name, err := d.native()
	if err != nil {
		return window.WindowInfo{}, err
	}
	return window.WindowInfo{Class: name, Title: name}, nil
}

func (d *Detector) probeEnhanced(ctx context.Context) (window.WindowInfo, error) {
	return d.evalPair(ctx, enhancedScript)
}

func (d *Detector) probeBrowserTab(ctx context.Context) (window.WindowInfo, error) {
	info, err := d.evalPair(ctx, browserScript)
	if err != nil {
		return window.WindowInfo{}, err
	}
	if info.Class == "Unknown" {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}
	return info, nil
}

func (d *Detector) probeGeneral(ctx context.Context) (window.WindowInfo, error) {
	return d.evalPair(ctx, generalScript)
}

func (d *Detector) probeBasic(ctx context.Context) (window.WindowInfo, error) {
	name, err := d.script.Eval(ctx, basicScript)
	if err != nil {
		return window.WindowInfo{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return window.WindowInfo{}, window.ErrNoActiveWindow
	}
	return window.WindowInfo{Class: name, Title: name + " - Active"}, nil
}

func (d *Detector) evalPair(ctx context.Context, src string) (window.WindowInfo, error) {
	out, err := d.script.Eval(ctx, src)
	if err != nil {
		return window.WindowInfo{}, err
	}
	info, err := window.ParseTaggedPair(out)
	if err != nil {
		return window.WindowInfo{}, err
	}
	return normalize(info), nil
}

func acceptNative(info window.WindowInfo) bool {
	return info.Title != "" && info.Title != unknownApplication
}

func acceptEnhanced(info window.WindowInfo) bool {
	return acceptBrowserTab(info) && info.Title != "Active"
}

func acceptBrowserTab(info window.WindowInfo) bool {
	return info.Title != "" &&
		info.Title != "No Window" &&
		!strings.Contains(info.Title, "Error|")
}
