package assembly

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reelsmith/internal/ffmpeg"
	"reelsmith/internal/fileutil"
	"reelsmith/internal/logging"
	"reelsmith/internal/services"
)

// ErrNoUsableClips is returned when every supplied clip failed to cut.
var ErrNoUsableClips = errors.New("no usable clips")

// ClipReport describes the outcome of the clip assembly step.
type ClipReport struct {
	Output    string
	Filler    bool
	Usable    []string
	Discarded []string
	Playlist  []string
}

// PlaylistLength returns how many fixed-length segments cover duration. One
// extra segment is always added so the concat never runs short before the
// final trim.
func PlaylistLength(duration, clipSeconds float64) int {
	if clipSeconds <= 0 || duration <= 0 {
		return 1
	}
	return int(math.Floor(duration/clipSeconds)) + 1
}

// BuildPlaylist cycles usable segments in order to fill n entries.
func BuildPlaylist(usable []string, n int) []string {
	if len(usable) == 0 || n <= 0 {
		return nil
	}
	entries := make([]string, n)
	for i := range entries {
		entries[i] = usable[i%len(usable)]
	}
	return entries
}

// AssembleClips writes a silent video of exactly duration seconds to output.
// Without clips a solid filler is rendered in a single invocation. Otherwise
// each clip is cut to a normalized segment, clips that fail to cut are
// discarded, and the survivors are cycled through a concat playlist.
func (a *Assembler) AssembleClips(ctx context.Context, clips []string, duration float64, output string) (ClipReport, error) {
	rs := a.runState(ctx, output)
	return a.assembleClips(ctx, rs, clips, duration, output)
}

func (a *Assembler) assembleClips(ctx context.Context, rs runState, clips []string, duration float64, output string) (ClipReport, error) {
	report := ClipReport{Output: output}
	logger := rs.logger
	for _, dir := range []string{rs.workDir, filepath.Dir(output)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, services.Wrap(services.ErrConfiguration, stepClips, "create directory", dir, err)
		}
	}

	if len(clips) == 0 {
		report.Filler = true
		logger.Info("no clips supplied, rendering filler",
			logging.String(logging.FieldEventType, "filler_render"),
			logging.Float64("duration_seconds", duration),
			logging.String("color", a.settings.FillerColor),
		)
		if err := a.exec(ctx, a.fillerCommand(duration, output)); err != nil {
			return report, services.Wrap(services.ErrExternalTool, stepClips, "render filler", output, err)
		}
		return report, nil
	}

	var intermediates []string
	defer func() {
		fileutil.RemoveQuietly(logger, intermediates...)
	}()

	for i, clip := range clips {
		segment := rs.intermediate("cut-" + strconv.Itoa(i) + ".mp4")
		intermediates = append(intermediates, segment)
		err := a.exec(ctx, a.cutCommand(clip, segment))
		if err == nil {
			report.Usable = append(report.Usable, segment)
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		if !isToolFailure(err) {
			return report, err
		}
		report.Discarded = append(report.Discarded, clip)
		logging.WarnWithContext(logger, "clip discarded", "clip_discarded",
			logging.String("clip", clip),
			logging.Int("index", i),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the clip is a readable video file"),
			logging.String(logging.FieldImpact, "clip left out of the B-roll rotation"),
		)
	}

	if len(report.Usable) == 0 {
		return report, services.Wrap(services.ErrValidation, stepClips, "cut clips",
			fmt.Sprintf("all %d clips failed", len(clips)), ErrNoUsableClips)
	}

	report.Playlist = BuildPlaylist(report.Usable, PlaylistLength(duration, a.settings.ClipSeconds))
	listPath := rs.intermediate("clips.txt")
	intermediates = append(intermediates, listPath)
	if err := writeConcatList(listPath, report.Playlist); err != nil {
		return report, services.Wrap(services.ErrConfiguration, stepClips, "write playlist", listPath, err)
	}

	logger.Debug("concatenating clips",
		logging.Int("usable", len(report.Usable)),
		logging.Int("discarded", len(report.Discarded)),
		logging.Int("playlist_entries", len(report.Playlist)),
	)
	if err := a.exec(ctx, a.concatCommand(listPath, duration, output)); err != nil {
		return report, services.Wrap(services.ErrExternalTool, stepClips, "concat clips", output, err)
	}
	return report, nil
}

func (a *Assembler) fillerCommand(duration float64, output string) ffmpeg.Command {
	s := a.settings
	source := fmt.Sprintf("color=c=%s:s=%s:d=%s:r=%d", s.FillerColor, s.frameSize(), seconds(duration), s.FPS)
	return ffmpeg.Command{
		LogLevel: s.LogLevel,
		Inputs:   []ffmpeg.Input{{Format: ffmpeg.FormatLavfi, Path: source}},
		Options: []string{
			"-t", seconds(duration),
			"-pix_fmt", s.PixFmt,
			"-c:v", s.Codec,
		},
		Output: output,
	}
}

func (a *Assembler) cutCommand(clip, output string) ffmpeg.Command {
	s := a.settings
	size := strconv.Itoa(s.Width) + ":" + strconv.Itoa(s.Height)
	return ffmpeg.Command{
		LogLevel:    s.LogLevel,
		Inputs:      []ffmpeg.Input{{Path: clip}},
		VideoFilter: "scale=" + size + ":force_original_aspect_ratio=increase,crop=" + size + ",fps=" + strconv.Itoa(s.FPS),
		Options: []string{
			"-t", seconds(s.ClipSeconds),
			"-c:v", s.Codec,
			"-preset", s.ClipPreset,
			"-crf", strconv.Itoa(s.ClipCRF),
			"-pix_fmt", s.PixFmt,
			"-an",
		},
		Output: output,
	}
}

func (a *Assembler) concatCommand(list string, duration float64, output string) ffmpeg.Command {
	return ffmpeg.Command{
		LogLevel: a.settings.LogLevel,
		Inputs:   []ffmpeg.Input{{Format: "concat", Options: []string{"-safe", "0"}, Path: list}},
		Options:  []string{"-t", seconds(duration), "-c", "copy"},
		Output:   output,
	}
}

func writeConcatList(path string, entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		abs, err := ffmpeg.NormalizePath(entry)
		if err != nil {
			return err
		}
		b.WriteString(ffmpeg.ConcatLine(abs))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// isToolFailure reports whether err is ffmpeg rejecting its input, as opposed
// to a missing binary or an argument that could not be built.
func isToolFailure(err error) bool {
	var toolErr *ffmpeg.ToolError
	return errors.As(err, &toolErr) || errors.Is(err, services.ErrExternalTool)
}
