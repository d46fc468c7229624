package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// FFmpeg contains external tool locations and verbosity.
type FFmpeg struct {
	Binary        string `toml:"binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	LogLevel      string `toml:"log_level"`
}

// Video contains the delivery frame geometry and encoder profiles.
type Video struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	FPS         int     `toml:"fps"`
	ClipSeconds float64 `toml:"clip_seconds"`
	FillerColor string  `toml:"filler_color"`
	Codec       string  `toml:"codec"`
	PixFmt      string  `toml:"pix_fmt"`
	// ClipPreset and ClipCRF apply to the per-clip normalization cuts.
	ClipPreset string `toml:"clip_preset"`
	ClipCRF    int    `toml:"clip_crf"`
	// Preset and CRF apply to the final composition encode.
	Preset string `toml:"preset"`
	CRF    int    `toml:"crf"`
}

// Audio contains narration/music mix levels and the delivery audio codec.
type Audio struct {
	Codec             string  `toml:"codec"`
	Bitrate           string  `toml:"bitrate"`
	NarrationVolume   float64 `toml:"narration_volume"`
	MusicVolume       float64 `toml:"music_volume"`
	MixDuration       string  `toml:"mix_duration"`
	DropoutTransition float64 `toml:"dropout_transition"`
}

// Captions contains styling and grouping rules for karaoke subtitles.
type Captions struct {
	Font            string `toml:"font"`
	FontSize        int    `toml:"font_size"`
	PrimaryColour   string `toml:"primary_colour"`
	SecondaryColour string `toml:"secondary_colour"`
	OutlineColour   string `toml:"outline_colour"`
	BackColour      string `toml:"back_colour"`
	HighlightColour string `toml:"highlight_colour"`
	BaseColour      string `toml:"base_colour"`
	Alignment       int    `toml:"alignment"`
	MarginL         int    `toml:"margin_l"`
	MarginR         int    `toml:"margin_r"`
	MarginV         int    `toml:"margin_v"`
	MaxWords        int    `toml:"max_words"`
	MinWordsBreak   int    `toml:"min_words_before_break"`
	LongWordRunes   int    `toml:"long_word_runes"`
	Case            string `toml:"case"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelsmith.
//
// Configuration sections by subsystem:
//   - Paths: intermediate work directory, logs, run history database
//   - FFmpeg: external binaries and their log level
//   - Video: frame geometry, clip cut length, encoder profiles
//   - Audio: narration/music mix and delivery codec
//   - Captions: ASS style and word grouping rules
//   - History: run history recording
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Video    Video    `toml:"video"`
	Audio    Audio    `toml:"audio"`
	Captions Captions `toml:"captions"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelsmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and, when configured, the work
// directory and the parent of the history database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.WorkDir) != "" {
		dirs = append(dirs, c.Paths.WorkDir)
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryDB) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for every media invocation.
func (c *Config) FFmpegBinary() string {
	if c == nil || strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return defaultFFmpegBinary
	}
	return c.FFmpeg.Binary
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if c == nil || strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return defaultFFprobeBinary
	}
	return c.FFmpeg.FFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML, used by `config show`.
func (c *Config) Encode() ([]byte, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return []byte(b.String()), nil
}
