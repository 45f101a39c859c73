//go:build !darwin || !cgo

package macos

import (
	"fmt"

	"github.com/locus/locus/pkg/window"
)

func frontmostApplicationName() (string, error) {
	return "", fmt.Errorf("workspace API unavailable in this build: %w", window.ErrNoActiveWindow)
}
