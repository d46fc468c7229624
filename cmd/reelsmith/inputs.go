package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"reelsmith/internal/captions"
	"reelsmith/internal/logging"
)

// scriptFlags are shared by commands that take narration text.
type scriptFlags struct {
	script     string
	scriptFile string
	timestamps string
}

func (f scriptFlags) readScript() (string, error) {
	inline := f.script != ""
	file := strings.TrimSpace(f.scriptFile) != ""
	switch {
	case inline && file:
		return "", errors.New("use either --script or --script-file, not both")
	case file:
		data, err := os.ReadFile(f.scriptFile)
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(data), nil
	default:
		return f.script, nil
	}
}

// loadTimestamps reads the optional timestamp file. An unreadable file or
// malformed content is logged and treated as absent so captions fall back to
// uniform timing.
func (f scriptFlags) loadTimestamps(logger *slog.Logger) []captions.Record {
	path := strings.TrimSpace(f.timestamps)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logging.WarnWithContext(logger, "ignoring unreadable timestamps", "timestamps_unreadable",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the --timestamps path"),
			logging.String(logging.FieldImpact, "captions use evenly spaced timing"),
		)
		return nil
	}
	records, err := captions.ParseTimestamps(data)
	if err != nil {
		logging.WarnWithContext(logger, "ignoring malformed timestamps", "timestamps_invalid",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "provide word or character timestamps as JSON"),
			logging.String(logging.FieldImpact, "captions use evenly spaced timing"),
		)
		return nil
	}
	return records
}
