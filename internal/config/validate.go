package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	assColourPattern = regexp.MustCompile(`^&H[0-9A-Fa-f]{6,8}&?$`)
	bitratePattern   = regexp.MustCompile(`^[0-9]+[kKmM]?$`)
	filterWordSafe   = regexp.MustCompile(`^[A-Za-z0-9#@._-]+$`)
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVideo() error {
	if err := ensurePositiveMap(map[string]int{
		"video.width":  c.Video.Width,
		"video.height": c.Video.Height,
		"video.fps":    c.Video.FPS,
	}); err != nil {
		return err
	}
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return errors.New("video.width and video.height must be even for yuv420p output")
	}
	if c.Video.ClipSeconds <= 0 {
		return errors.New("video.clip_seconds must be positive")
	}
	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		return errors.New("video.crf must be between 0 and 51")
	}
	if c.Video.ClipCRF < 0 || c.Video.ClipCRF > 51 {
		return errors.New("video.clip_crf must be between 0 and 51")
	}
	if !filterWordSafe.MatchString(c.Video.FillerColor) {
		return fmt.Errorf("video.filler_color %q must be a colour name or hex value", c.Video.FillerColor)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if !bitratePattern.MatchString(c.Audio.Bitrate) {
		return fmt.Errorf("audio.bitrate %q must look like 192k", c.Audio.Bitrate)
	}
	if c.Audio.NarrationVolume < 0 {
		return errors.New("audio.narration_volume must be >= 0")
	}
	if c.Audio.MusicVolume < 0 {
		return errors.New("audio.music_volume must be >= 0")
	}
	if c.Audio.DropoutTransition < 0 {
		return errors.New("audio.dropout_transition must be >= 0")
	}
	switch c.Audio.MixDuration {
	case "first", "shortest", "longest":
	default:
		return fmt.Errorf("audio.mix_duration must be one of first, shortest, longest (got %q)", c.Audio.MixDuration)
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.FontSize <= 0 {
		return errors.New("captions.font_size must be positive")
	}
	if strings.ContainsAny(c.Captions.Font, ",\r\n") {
		return errors.New("captions.font must not contain commas or newlines")
	}
	colours := map[string]string{
		"captions.primary_colour":   c.Captions.PrimaryColour,
		"captions.secondary_colour": c.Captions.SecondaryColour,
		"captions.outline_colour":   c.Captions.OutlineColour,
		"captions.back_colour":      c.Captions.BackColour,
		"captions.highlight_colour": c.Captions.HighlightColour,
		"captions.base_colour":      c.Captions.BaseColour,
	}
	for key, value := range colours {
		if !assColourPattern.MatchString(value) {
			return fmt.Errorf("%s %q must be an ASS colour like &H00FFFFFF", key, value)
		}
	}
	if c.Captions.Alignment < 1 || c.Captions.Alignment > 9 {
		return errors.New("captions.alignment must be between 1 and 9")
	}
	if c.Captions.MaxWords <= 0 {
		return errors.New("captions.max_words must be positive")
	}
	if c.Captions.MinWordsBreak <= 0 || c.Captions.MinWordsBreak > c.Captions.MaxWords {
		return errors.New("captions.min_words_before_break must be between 1 and captions.max_words")
	}
	if c.Captions.LongWordRunes <= 0 {
		return errors.New("captions.long_word_runes must be positive")
	}
	switch c.Captions.Case {
	case "none", "upper", "title":
	default:
		return fmt.Errorf("captions.case must be one of none, upper, title (got %q)", c.Captions.Case)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
