package ffmpeg

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"reelsmith/internal/services"
)

func TestCommandArgsLayout(t *testing.T) {
	dir := t.TempDir()
	cmd := Command{
		Inputs: []Input{
			{Path: filepath.Join(dir, "video.mp4")},
			{Path: filepath.Join(dir, "voice.mp3")},
		},
		FilterComplex: "[0:v]null[video]",
		Maps:          []string{"[video]", "1:a"},
		Options:       []string{"-c:v", "libx264"},
		Output:        filepath.Join(dir, "out.mp4"),
	}
	args, err := cmd.Args()
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-i", filepath.Join(dir, "video.mp4"),
		"-i", filepath.Join(dir, "voice.mp3"),
		"-filter_complex", "[0:v]null[video]",
		"-map", "[video]", "-map", "1:a",
		"-c:v", "libx264",
		filepath.Join(dir, "out.mp4"),
	}
	if !slices.Equal(args, want) {
		t.Fatalf("unexpected args\nwant %q\ngot  %q", want, args)
	}
}

func TestCommandArgsLavfiInput(t *testing.T) {
	cmd := Command{
		LogLevel: "warning",
		Inputs:   []Input{{Format: FormatLavfi, Path: "color=c=black:s=1080x1920:d=5"}},
		Options:  []string{"-t", "5"},
		Output:   filepath.Join(t.TempDir(), "filler.mp4"),
	}
	args, err := cmd.Args()
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	if args[4] != "warning" {
		t.Fatalf("expected log level warning, got %q", args[4])
	}
	if !slices.Equal(args[5:9], []string{"-f", "lavfi", "-i", "color=c=black:s=1080x1920:d=5"}) {
		t.Fatalf("unexpected lavfi input args %q", args[5:9])
	}
}

func TestCommandArgsInputOptionsPrecedeInput(t *testing.T) {
	list := filepath.Join(t.TempDir(), "list.txt")
	cmd := Command{
		Inputs: []Input{{Format: "concat", Options: []string{"-safe", "0"}, Path: list}},
		Output: "out.mp4",
	}
	args, err := cmd.Args()
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	if !slices.Equal(args[5:11], []string{"-f", "concat", "-safe", "0", "-i", list}) {
		t.Fatalf("unexpected input args %q", args[5:11])
	}
	if !filepath.IsAbs(args[len(args)-1]) {
		t.Fatalf("expected absolute output, got %q", args[len(args)-1])
	}
}

func TestCommandArgsMakesDashPathsAbsolute(t *testing.T) {
	cmd := Command{Inputs: []Input{{Path: "-evil.mp4"}}, Output: "-out.mp4"}
	args, err := cmd.Args()
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	for _, arg := range []string{args[6], args[len(args)-1]} {
		if strings.HasPrefix(arg, "-") {
			t.Fatalf("path %q could be parsed as an option", arg)
		}
	}
}

func TestCommandArgsValidation(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.mp4")
	tests := []struct {
		name string
		cmd  Command
	}{
		{name: "no inputs", cmd: Command{Output: good}},
		{name: "empty input", cmd: Command{Inputs: []Input{{Path: " "}}, Output: good}},
		{name: "newline in input", cmd: Command{Inputs: []Input{{Path: good + "\nx"}}, Output: good}},
		{name: "carriage return in output", cmd: Command{Inputs: []Input{{Path: good}}, Output: good + "\r"}},
		{name: "nul in output", cmd: Command{Inputs: []Input{{Path: good}}, Output: "a\x00b"}},
		{name: "empty output", cmd: Command{Inputs: []Input{{Path: good}}}},
		{name: "empty lavfi", cmd: Command{Inputs: []Input{{Format: FormatLavfi}}, Output: good}},
		{name: "nul in option", cmd: Command{Inputs: []Input{{Path: good}}, Options: []string{"-metadata", "x\x00"}, Output: good}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cmd.Args()
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
