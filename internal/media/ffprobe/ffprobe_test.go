package ffprobe

import (
	"context"
	"errors"
	"slices"
	"testing"

	"reelsmith/internal/services"
)

func TestResultDurationSeconds(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "9.5"}},
		Format:  Format{Duration: "12.25"},
	}
	if got := result.DurationSeconds(); got != 12.25 {
		t.Fatalf("expected container duration, got %v", got)
	}
}

func TestResultDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Duration: "4.5"},
			{CodecType: "audio", Duration: "bad"},
			{CodecType: "audio", Duration: "7.75"},
		},
		Format: Format{Duration: "N/A"},
	}
	if got := result.DurationSeconds(); got != 7.75 {
		t.Fatalf("expected longest stream duration, got %v", got)
	}
	if got := (Result{}).DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for empty result, got %v", got)
	}
}

func TestProberDuration(t *testing.T) {
	prober := New("")
	var gotName string
	var gotArgs []string
	prober.WithOutputRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(`{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"31.200000"}}`), nil
	})

	seconds, err := prober.Duration(context.Background(), "/tmp/voice.mp3")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if seconds != 31.2 {
		t.Fatalf("expected 31.2, got %v", seconds)
	}
	if gotName != "ffprobe" {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	if gotArgs[len(gotArgs)-2] != "--" || gotArgs[len(gotArgs)-1] != "/tmp/voice.mp3" {
		t.Fatalf("expected path after --, got %q", gotArgs)
	}
	if !slices.Contains(gotArgs, "-show_format") {
		t.Fatalf("expected -show_format in %q", gotArgs)
	}
}

func TestProberDurationErrors(t *testing.T) {
	prober := New("ffprobe")
	prober.WithOutputRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"format":{}}`), nil
	})
	if _, err := prober.Duration(context.Background(), "/tmp/silent.wav"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing duration, got %v", err)
	}

	prober.WithOutputRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})
	if _, err := prober.Duration(context.Background(), "/tmp/broken.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	prober.WithOutputRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	})
	if _, err := prober.Duration(context.Background(), "/tmp/garbled.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected parse error marked external tool, got %v", err)
	}

	if _, err := prober.Inspect(context.Background(), " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty path, got %v", err)
	}
}
