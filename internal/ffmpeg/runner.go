package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"reelsmith/internal/services"
)

// Runner executes an external command. Implementations must not use a shell.
type Runner func(ctx context.Context, name string, args ...string) error

// maxDiagnosticLines bounds how much stderr is kept on ToolError.
const maxDiagnosticLines = 12

// ToolError reports a non-zero exit from an external tool.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// DefaultRunner runs name with args, capturing stderr. A non-zero exit is
// returned as a *ToolError marked with services.ErrExternalTool; a missing
// binary is marked with services.ErrNotFound.
func DefaultRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	tool := filepath.Base(name)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", tool, ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return services.Wrap(services.ErrNotFound, "", tool, "binary not found", err)
	}

	toolErr := &ToolError{
		Tool:     tool,
		Args:     append([]string(nil), args...),
		ExitCode: -1,
		Stderr:   TrimDiagnostic(stderr.String()),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	} else {
		toolErr.Stderr = strings.TrimSpace(toolErr.Stderr + " " + err.Error())
	}
	return services.Wrap(services.ErrExternalTool, "", tool, "", toolErr)
}

// TrimDiagnostic keeps the last few non-empty lines of tool output.
func TrimDiagnostic(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > maxDiagnosticLines {
		kept = kept[len(kept)-maxDiagnosticLines:]
	}
	return strings.Join(kept, " | ")
}
