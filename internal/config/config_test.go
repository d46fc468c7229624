package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelsmith/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "reelsmith", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Paths.WorkDir != "" {
		t.Fatalf("expected empty work dir by default, got %q", cfg.Paths.WorkDir)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 {
		t.Fatalf("unexpected frame size %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.ClipSeconds != 2.5 {
		t.Fatalf("unexpected clip seconds: %v", cfg.Video.ClipSeconds)
	}
	if cfg.Audio.MusicVolume != 0.3 {
		t.Fatalf("unexpected music volume: %v", cfg.Audio.MusicVolume)
	}
	if cfg.Captions.MaxWords != 4 || cfg.Captions.MinWordsBreak != 3 || cfg.Captions.LongWordRunes != 10 {
		t.Fatalf("unexpected caption grouping defaults: %+v", cfg.Captions)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelsmith.toml")

	type payload struct {
		Paths struct {
			WorkDir string `toml:"work_dir"`
		} `toml:"paths"`
		Video struct {
			Width  int `toml:"width"`
			Height int `toml:"height"`
		} `toml:"video"`
		Captions struct {
			Case string `toml:"case"`
		} `toml:"captions"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.WorkDir = filepath.Join(tempDir, "work")
	custom.Video.Width = 720
	custom.Video.Height = 1280
	custom.Captions.Case = " UPPER "
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config %q to be used, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempDir, "work") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Video.Width != 720 || cfg.Video.Height != 1280 {
		t.Fatalf("unexpected frame size %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Captions.Case != "upper" {
		t.Fatalf("expected normalized caption case, got %q", cfg.Captions.Case)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
	if cfg.Video.FPS != 30 {
		t.Fatalf("expected untouched defaults to survive, fps=%d", cfg.Video.FPS)
	}
}

func TestEnvOverridesBinaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REELSMITH_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("REELSMITH_FFPROBE", "/opt/ffmpeg/bin/ffprobe")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if cfg.FFprobeBinary() != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"odd width", func(c *config.Config) { c.Video.Width = 1081 }, "even"},
		{"zero clip seconds", func(c *config.Config) { c.Video.ClipSeconds = 0 }, "video.clip_seconds"},
		{"crf range", func(c *config.Config) { c.Video.CRF = 60 }, "video.crf"},
		{"filler injection", func(c *config.Config) { c.Video.FillerColor = "black:d=1,foo" }, "video.filler_color"},
		{"bitrate", func(c *config.Config) { c.Audio.Bitrate = "loud" }, "audio.bitrate"},
		{"mix duration", func(c *config.Config) { c.Audio.MixDuration = "forever" }, "audio.mix_duration"},
		{"colour", func(c *config.Config) { c.Captions.HighlightColour = "yellow" }, "captions.highlight_colour"},
		{"font comma", func(c *config.Config) { c.Captions.Font = "Arial,Bold" }, "captions.font"},
		{"min words", func(c *config.Config) { c.Captions.MinWordsBreak = 9 }, "captions.min_words_before_break"},
		{"case", func(c *config.Config) { c.Captions.Case = "lower" }, "captions.case"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	want := config.Default()
	if cfg.Video.Width != want.Video.Width || cfg.Captions.HighlightColour != want.Captions.HighlightColour {
		t.Fatalf("sample diverges from defaults: %+v", cfg)
	}
}

func TestEncodeIncludesSections(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, section := range []string{"[paths]", "[video]", "[audio]", "[captions]", "[logging]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("expected %s in encoded config:\n%s", section, data)
		}
	}
}
