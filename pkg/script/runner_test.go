package script

import (
	"context"
	"errors"
	"testing"

	"github.com/locus/locus/pkg/window"
)

func TestExecRunner(t *testing.T) {
	if !CommandExists("sh") {
		t.Skip("sh not available")
	}

	runner := NewExecRunner()
	out, err := runner.Run(context.Background(), "sh", "-c", "printf 'Finder|Downloads\n'")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "Finder|Downloads" {
		t.Errorf("Run() = %q, want trimmed output", out)
	}
}

func TestExecRunnerFailure(t *testing.T) {
	if !CommandExists("sh") {
		t.Skip("sh not available")
	}

	runner := NewExecRunner()
	_, err := runner.Run(context.Background(), "sh", "-c", "echo 'not authorized' >&2; exit 1")
	if err == nil {
		t.Fatal("Run() error = nil, want failure")
	}

	var toolErr *window.ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %T is not an ExternalToolError", err)
	}
	if toolErr.Tool != "sh" {
		t.Errorf("Tool = %s, want sh", toolErr.Tool)
	}
	if toolErr.Message != "not authorized" {
		t.Errorf("Message = %q, want stderr text", toolErr.Message)
	}
}

func TestExecRunnerMissingTool(t *testing.T) {
	runner := NewExecRunner()
	_, err := runner.Run(context.Background(), "nonexistent_command_xyz")
	if !window.IsExternalToolError(err) {
		t.Errorf("Run() error = %v, want ExternalToolError", err)
	}
}

func TestCommandExists(t *testing.T) {
	if CommandExists("nonexistent_command_xyz") {
		t.Error("CommandExists() = true for missing command")
	}
}

type recordingRunner struct {
	name string
	args []string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.name = name
	r.args = args
	return "ok", nil
}

func TestAppleScriptEval(t *testing.T) {
	rec := &recordingRunner{}
	as := NewAppleScript(rec, "")

	out, err := as.Eval(context.Background(), `return "x"`)
	if err != nil || out != "ok" {
		t.Fatalf("Eval() = %q, %v", out, err)
	}
	if rec.name != "osascript" || len(rec.args) != 2 || rec.args[0] != "-e" || rec.args[1] != `return "x"` {
		t.Errorf("ran %s %v", rec.name, rec.args)
	}
}
