// Package fileutil holds the small filesystem helpers shared by the pipeline:
// best-effort removal of intermediates and moving finished renders into place.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"reelsmith/internal/logging"
)

// RemoveQuietly deletes each path, logging failures instead of returning
// them. Missing files and empty paths are ignored.
func RemoveQuietly(logger *slog.Logger, paths ...string) int {
	removed := 0
	for _, path := range paths {
		if path == "" {
			continue
		}
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, os.ErrNotExist):
		default:
			if logger != nil {
				logger.Warn("failed to remove intermediate file",
					logging.Error(err),
					logging.String("path", path),
					logging.String(logging.FieldEventType, "cleanup_failed"),
					logging.String(logging.FieldErrorHint, "remove the file manually"),
					logging.String(logging.FieldImpact, "stale intermediate left on disk"),
				)
			}
		}
	}
	return removed
}

// MoveFile renames src to dst, falling back to copy and delete when the two
// paths are on different filesystems.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	info, statErr := os.Stat(src)
	if statErr != nil {
		return fmt.Errorf("stat source: %w", statErr)
	}
	if err := CopyFileMode(src, dst, info.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

// CopyFileMode streams src to dst, setting the given file mode on dst, and
// fails when the byte counts differ.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return err
	}
	if written != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	return out.Close()
}
