package window

import (
	"fmt"
	"strings"
)

// ParseTaggedPair parses tool output of the form "class|title".
// The output is trimmed and split on the first "|" only, so the title may itself
// contain "|". Output without a separator is rejected.
func ParseTaggedPair(output string) (WindowInfo, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return WindowInfo{}, ErrNoActiveWindow
	}

	parts := strings.SplitN(trimmed, "|", 2)
	if len(parts) < 2 {
		return WindowInfo{}, &ExternalToolError{
			Tool:    "parser",
			Message: fmt.Sprintf("malformed tagged pair %q", trimmed),
		}
	}

	return WindowInfo{Class: parts[0], Title: parts[1]}, nil
}
