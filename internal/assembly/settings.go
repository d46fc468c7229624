package assembly

import (
	"strconv"
	"strings"

	"reelsmith/internal/config"
)

// Settings holds the encoder and mix parameters used to build commands.
type Settings struct {
	LogLevel          string
	Width             int
	Height            int
	FPS               int
	ClipSeconds       float64
	FillerColor       string
	Codec             string
	PixFmt            string
	ClipPreset        string
	ClipCRF           int
	Preset            string
	CRF               int
	AudioCodec        string
	AudioBitrate      string
	NarrationVolume   float64
	MusicVolume       float64
	MixDuration       string
	DropoutTransition float64
}

// SettingsFromConfig maps the [ffmpeg], [video] and [audio] sections.
func SettingsFromConfig(cfg *config.Config) Settings {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Settings{
		LogLevel:          cfg.FFmpeg.LogLevel,
		Width:             cfg.Video.Width,
		Height:            cfg.Video.Height,
		FPS:               cfg.Video.FPS,
		ClipSeconds:       cfg.Video.ClipSeconds,
		FillerColor:       cfg.Video.FillerColor,
		Codec:             cfg.Video.Codec,
		PixFmt:            cfg.Video.PixFmt,
		ClipPreset:        cfg.Video.ClipPreset,
		ClipCRF:           cfg.Video.ClipCRF,
		Preset:            cfg.Video.Preset,
		CRF:               cfg.Video.CRF,
		AudioCodec:        cfg.Audio.Codec,
		AudioBitrate:      cfg.Audio.Bitrate,
		NarrationVolume:   cfg.Audio.NarrationVolume,
		MusicVolume:       cfg.Audio.MusicVolume,
		MixDuration:       cfg.Audio.MixDuration,
		DropoutTransition: cfg.Audio.DropoutTransition,
	}
}

func (s Settings) frameSize() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// seconds renders a duration without trailing zeros (5 -> "5", 2.5 -> "2.5").
func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// level renders a gain with at least one decimal (1 -> "1.0").
func level(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
