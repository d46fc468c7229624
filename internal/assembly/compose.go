package assembly

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reelsmith/internal/ffmpeg"
	"reelsmith/internal/fileutil"
	"reelsmith/internal/logging"
	"reelsmith/internal/services"
)

// ComposeInput names the media combined by the composition step.
type ComposeInput struct {
	Video     string
	Narration string
	Music     string
	Subtitles string
	Output    string
}

// Compose burns the subtitles into the video, mixes narration with optional
// music and encodes the delivery file. The render goes to a temporary file
// beside Output that is renamed into place only on success.
func (a *Assembler) Compose(ctx context.Context, in ComposeInput) error {
	rs := a.runState(ctx, in.Output)
	return a.compose(ctx, rs, in)
}

func (a *Assembler) compose(ctx context.Context, rs runState, in ComposeInput) error {
	partial := partialPath(in.Output, rs.token)
	if err := os.MkdirAll(filepath.Dir(partial), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, stepCompose, "prepare output directory", filepath.Dir(partial), err)
	}

	cmd := a.composeCommand(in, partial)
	rs.logger.Debug("composing final render",
		logging.Bool("music", in.Music != ""),
		logging.String("subtitles", in.Subtitles),
		logging.String("partial", partial),
	)
	if err := a.exec(ctx, cmd); err != nil {
		fileutil.RemoveQuietly(rs.logger, partial)
		return services.Wrap(services.ErrExternalTool, stepCompose, "render", in.Output, err)
	}
	if err := fileutil.MoveFile(partial, in.Output); err != nil {
		fileutil.RemoveQuietly(rs.logger, partial)
		return services.Wrap(services.ErrConfiguration, stepCompose, "move render into place", in.Output, err)
	}
	return nil
}

func (a *Assembler) composeCommand(in ComposeInput, output string) ffmpeg.Command {
	s := a.settings
	inputs := []ffmpeg.Input{{Path: in.Video}, {Path: in.Narration}}

	graph := []string{"[0:v]subtitles=filename=" + ffmpeg.EscapeFilterPath(in.Subtitles) + "[video]"}
	audioMap := "1:a"
	if in.Music != "" {
		inputs = append(inputs, ffmpeg.Input{Path: in.Music})
		graph = append(graph,
			"[1:a]volume="+level(s.NarrationVolume)+"[voice]",
			"[2:a]volume="+level(s.MusicVolume)+"[music]",
			fmt.Sprintf("[voice][music]amix=inputs=2:duration=%s:dropout_transition=%s[audio]",
				s.MixDuration, seconds(s.DropoutTransition)),
		)
		audioMap = "[audio]"
	}

	return ffmpeg.Command{
		LogLevel:      s.LogLevel,
		Inputs:        inputs,
		FilterComplex: strings.Join(graph, ";"),
		Maps:          []string{"[video]", audioMap},
		Options: []string{
			"-c:v", s.Codec,
			"-preset", s.Preset,
			"-crf", strconv.Itoa(s.CRF),
			"-pix_fmt", s.PixFmt,
			"-c:a", s.AudioCodec,
			"-b:a", s.AudioBitrate,
			"-movflags", "+faststart",
			"-f", "mp4",
		},
		Output: output,
	}
}

// partialPath names the in-progress render as a hidden file next to output.
func partialPath(output, token string) string {
	dir, base := filepath.Split(output)
	return filepath.Join(dir, "."+base+"."+token+".part")
}
