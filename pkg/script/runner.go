package script

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/locus/locus/pkg/window"
)

// Runner executes an external tool and returns its standard output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs tools as child processes. Calls run to completion: the
// context is only for process shutdown, there is no per-call timeout.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and returns trimmed stdout
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "command failed"
		}
		return "", &window.ExternalToolError{
			Tool:    name,
			Message: msg,
			Err:     errors.Wrapf(err, "run %s", name),
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CommandExists checks if a command is available in PATH
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// AppleScript runs literal script text through an osascript-compatible interpreter
type AppleScript struct {
	runner Runner
	tool   string
}

// NewAppleScript creates an AppleScript executor using tool (normally "osascript")
func NewAppleScript(runner Runner, tool string) *AppleScript {
	if tool == "" {
		tool = "osascript"
	}
	return &AppleScript{runner: runner, tool: tool}
}

// Eval runs src with "-e" and returns the trimmed output
func (a *AppleScript) Eval(ctx context.Context, src string) (string, error) {
	return a.runner.Run(ctx, a.tool, "-e", src)
}
