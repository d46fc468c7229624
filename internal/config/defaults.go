package config

const (
	defaultConfigPath        = "~/.config/reelsmith/config.toml"
	defaultLogDir            = "~/.local/share/reelsmith/logs"
	defaultHistoryDB         = "~/.local/share/reelsmith/history.db"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultFFmpegLogLevel    = "error"
	defaultWidth             = 1080
	defaultHeight            = 1920
	defaultFPS               = 30
	defaultClipSeconds       = 2.5
	defaultFillerColor       = "black"
	defaultVideoCodec        = "libx264"
	defaultPixFmt            = "yuv420p"
	defaultClipPreset        = "fast"
	defaultClipCRF           = 23
	defaultPreset            = "medium"
	defaultCRF               = 23
	defaultAudioCodec        = "aac"
	defaultAudioBitrate      = "192k"
	defaultNarrationVolume   = 1.0
	defaultMusicVolume       = 0.3
	defaultMixDuration       = "first"
	defaultDropoutTransition = 2
	defaultCaptionFont       = "Arial"
	defaultCaptionFontSize   = 48
	defaultPrimaryColour     = "&H00FFFFFF"
	defaultSecondaryColour   = "&H00FFFFFF"
	defaultOutlineColour     = "&H00000000"
	defaultBackColour        = "&H80000000"
	defaultHighlightColour   = "&H00FFFF&"
	defaultBaseColour        = "&HFFFFFF&"
	defaultCaptionAlignment  = 2
	defaultMarginL           = 20
	defaultMarginR           = 20
	defaultMarginV           = 120
	defaultMaxWords          = 4
	defaultMinWordsBreak     = 3
	defaultLongWordRunes     = 10
	defaultCaptionCase       = "none"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			LogLevel:      defaultFFmpegLogLevel,
		},
		Video: Video{
			Width:       defaultWidth,
			Height:      defaultHeight,
			FPS:         defaultFPS,
			ClipSeconds: defaultClipSeconds,
			FillerColor: defaultFillerColor,
			Codec:       defaultVideoCodec,
			PixFmt:      defaultPixFmt,
			ClipPreset:  defaultClipPreset,
			ClipCRF:     defaultClipCRF,
			Preset:      defaultPreset,
			CRF:         defaultCRF,
		},
		Audio: Audio{
			Codec:             defaultAudioCodec,
			Bitrate:           defaultAudioBitrate,
			NarrationVolume:   defaultNarrationVolume,
			MusicVolume:       defaultMusicVolume,
			MixDuration:       defaultMixDuration,
			DropoutTransition: defaultDropoutTransition,
		},
		Captions: Captions{
			Font:            defaultCaptionFont,
			FontSize:        defaultCaptionFontSize,
			PrimaryColour:   defaultPrimaryColour,
			SecondaryColour: defaultSecondaryColour,
			OutlineColour:   defaultOutlineColour,
			BackColour:      defaultBackColour,
			HighlightColour: defaultHighlightColour,
			BaseColour:      defaultBaseColour,
			Alignment:       defaultCaptionAlignment,
			MarginL:         defaultMarginL,
			MarginR:         defaultMarginR,
			MarginV:         defaultMarginV,
			MaxWords:        defaultMaxWords,
			MinWordsBreak:   defaultMinWordsBreak,
			LongWordRunes:   defaultLongWordRunes,
			Case:            defaultCaptionCase,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
