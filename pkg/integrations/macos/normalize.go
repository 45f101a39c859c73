package macos

import (
	"strings"

	"github.com/locus/locus/pkg/window"
)

// titleSuffixes maps a browser tag to the decoration it appends to window titles.
// Everything from the first occurrence of the marker onwards is dropped.
var titleSuffixes = map[string]string{
	"Chrome":  " - Google Chrome",
	"Firefox": " - Mozilla Firefox",
	"Brave":   " - Brave",
	"Edge":    " - Microsoft Edge",
	"Safari":  " — ",
}

// normalize strips the browser decoration from a title. The class is left untouched.
func normalize(info window.WindowInfo) window.WindowInfo {
	marker, ok := titleSuffixes[info.Class]
	if !ok {
		return info
	}
	if idx := strings.Index(info.Title, marker); idx > 0 {
		info.Title = info.Title[:idx]
	}
	return info
}
