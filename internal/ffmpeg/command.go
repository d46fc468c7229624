package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strings"

	"reelsmith/internal/services"
)

// DefaultLogLevel keeps ffmpeg quiet unless something fails.
const DefaultLogLevel = "error"

// FormatLavfi marks an input as a libavfilter source description.
const FormatLavfi = "lavfi"

// Input is one -i source. Format and Options are emitted before -i.
type Input struct {
	Path    string
	Format  string
	Options []string
}

// Virtual reports whether the input is a filter source rather than a file.
func (in Input) Virtual() bool {
	return in.Format == FormatLavfi
}

// Command describes a single ffmpeg invocation.
type Command struct {
	LogLevel      string
	Inputs        []Input
	FilterComplex string
	VideoFilter   string
	Maps          []string
	Options       []string
	Output        string
}

// Args validates the command and returns the argument list without the
// binary name. Overwrite is always forced.
func (c Command) Args() ([]string, error) {
	if len(c.Inputs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "ffmpeg", "build args", "at least one input is required", nil)
	}

	level := strings.TrimSpace(c.LogLevel)
	if level == "" {
		level = DefaultLogLevel
	}
	args := make([]string, 0, 32)

	// preamble
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", level)

	// inputs
	for i, in := range c.Inputs {
		source, err := inputSource(in)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "ffmpeg", "build args", fmt.Sprintf("input %d", i), err)
		}
		if in.Format != "" {
			args = append(args, "-f", in.Format)
		}
		args = append(args, in.Options...)
		args = append(args, "-i", source)
	}

	// filters
	if c.FilterComplex != "" {
		args = append(args, "-filter_complex", c.FilterComplex)
	}
	if c.VideoFilter != "" {
		args = append(args, "-vf", c.VideoFilter)
	}

	// maps
	for _, m := range c.Maps {
		args = append(args, "-map", m)
	}

	// codecs and container options
	args = append(args, c.Options...)

	// output
	output, err := NormalizePath(c.Output)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ffmpeg", "build args", "output", err)
	}
	args = append(args, output)

	for _, arg := range args {
		if strings.ContainsRune(arg, 0) {
			return nil, services.Wrap(services.ErrValidation, "ffmpeg", "build args", "argument contains NUL byte", nil)
		}
	}
	return args, nil
}

func inputSource(in Input) (string, error) {
	if in.Virtual() {
		if strings.TrimSpace(in.Path) == "" {
			return "", fmt.Errorf("empty %s source", in.Format)
		}
		if err := checkControlChars(in.Path); err != nil {
			return "", err
		}
		return in.Path, nil
	}
	return NormalizePath(in.Path)
}

// NormalizePath rejects empty paths and paths containing NUL, CR or LF, and
// returns the absolute form so the value can never be read as an option.
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is empty")
	}
	if err := checkControlChars(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return abs, nil
}

func checkControlChars(value string) error {
	if strings.ContainsAny(value, "\x00\r\n") {
		return fmt.Errorf("%q contains a NUL or line break", value)
	}
	return nil
}
