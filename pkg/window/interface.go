package window

import "context"

// EventActiveWindowTitle is the event name published on every focus change
const EventActiveWindowTitle = "active-window-title"

const noneValue = "none"

// WindowInfo represents the currently focused window.
// Class is an opaque application label (e.g. "Chrome", "VS Code", "Finder"),
// not a fixed enum: the set of labels grows with every tagged application.
type WindowInfo struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

// None returns the sentinel value meaning "no window detected"
func None() WindowInfo {
	return WindowInfo{Class: noneValue, Title: noneValue}
}

// IsNone reports whether info is the sentinel value
func (w WindowInfo) IsNone() bool {
	return w == None()
}

func (w WindowInfo) String() string {
	return w.Class + " - " + w.Title
}

// Prober resolves the currently focused window. It never fails: when nothing
// can be determined it returns None().
type Prober interface {
	Probe(ctx context.Context) WindowInfo
}

// Detector is the interface every platform chain must satisfy
type Detector interface {
	Prober

	// DisplayServer returns the windowing system the detector talks to
	// ("quartz", "x11" or "wayland")
	DisplayServer() string

	// Close releases any connection held by the detector
	Close() error
}
