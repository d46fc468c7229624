package assembly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelsmith/internal/captions"
	"reelsmith/internal/config"
	"reelsmith/internal/ffmpeg"
	"reelsmith/internal/fileutil"
	"reelsmith/internal/history"
	"reelsmith/internal/logging"
	"reelsmith/internal/services"
	"reelsmith/internal/textutil"
)

const (
	stepValidate  = "validate"
	stepLock      = "lock"
	stepDuration  = "duration"
	stepSubtitles = "subtitles"
	stepClips     = "clips"
	stepCompose   = "compose"
)

// ErrOutputLocked is returned when another process is rendering the same output.
var ErrOutputLocked = errors.New("output is locked by another run")

// DurationProber measures media length in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Recorder persists run history.
type Recorder interface {
	RecordStart(ctx context.Context, start history.Start) error
	RecordFinish(ctx context.Context, runID string, outcome history.Outcome) error
}

// Request describes one assembly run.
type Request struct {
	Output    string
	Narration string
	Clips     []string
	Records   []captions.Record
	Script    string
	Music     string
	// Duration in seconds; <= 0 means measure the narration.
	Duration          float64
	KeepIntermediates bool
}

// Result reports what a successful run produced.
type Result struct {
	RunID          string
	Output         string
	Subtitles      string
	Duration       float64
	CaptionEvents  int
	UsableClips    int
	DiscardedClips []string
	Filler         bool
	Elapsed        time.Duration
}

// Assembler drives the caption, clip and composition steps.
type Assembler struct {
	settings Settings
	captions captions.Options
	binary   string
	workDir  string
	logger   *slog.Logger
	run      ffmpeg.Runner
	probe    DurationProber
	recorder Recorder
}

// New constructs an Assembler from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Assembler {
	a := &Assembler{
		settings: SettingsFromConfig(cfg),
		captions: captions.OptionsFromConfig(cfg),
		binary:   cfg.FFmpegBinary(),
		logger:   logging.NewComponentLogger(logger, "assembly"),
		run:      ffmpeg.DefaultRunner,
	}
	if cfg != nil {
		a.workDir = cfg.Paths.WorkDir
	}
	return a
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (a *Assembler) WithCommandRunner(r ffmpeg.Runner) {
	if a != nil && r != nil {
		a.run = r
	}
}

// WithProber sets the prober used when a request carries no duration.
func (a *Assembler) WithProber(p DurationProber) {
	if a != nil {
		a.probe = p
	}
}

// WithRecorder sets the run history sink.
func (a *Assembler) WithRecorder(r Recorder) {
	if a != nil {
		a.recorder = r
	}
}

// runState carries per-run naming and logging.
type runState struct {
	id      string
	token   string
	stem    string
	workDir string
	logger  *slog.Logger
}

func (a *Assembler) runState(ctx context.Context, output string) runState {
	id, ok := services.RunIDFromContext(ctx)
	if !ok {
		id = uuid.NewString()
	}
	token := strings.ReplaceAll(id, "-", "")
	if len(token) > 12 {
		token = token[:12]
	}
	workDir := a.workDir
	if strings.TrimSpace(workDir) == "" {
		workDir = filepath.Dir(output)
	}
	stem := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	return runState{
		id:      id,
		token:   token,
		stem:    textutil.SanitizeToken(stem),
		workDir: workDir,
		logger:  logging.WithContext(ctx, a.logger),
	}
}

// intermediate returns a run-scoped hidden path inside the work directory.
func (rs runState) intermediate(name string) string {
	return filepath.Join(rs.workDir, ".reelsmith-"+rs.stem+"-"+rs.token+"-"+name)
}

func (a *Assembler) exec(ctx context.Context, cmd ffmpeg.Command) error {
	args, err := cmd.Args()
	if err != nil {
		return err
	}
	return a.run(ctx, a.binary, args...)
}

// Assemble validates the request, then writes captions, assembles the clips
// and composes the final render. Any step failure aborts the run; there are
// no retries. Intermediates are removed unless KeepIntermediates is set.
func (a *Assembler) Assemble(ctx context.Context, req Request) (Result, error) {
	if a == nil {
		return Result{}, errors.New("assembler not initialized")
	}
	started := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithOutput(ctx, req.Output)
	rs := a.runState(ctx, req.Output)
	result := Result{RunID: runID, Output: req.Output}
	recorded := false

	fail := func(step string, err error, path string) (Result, error) {
		stepLogger := logging.WithContext(services.WithStep(ctx, step), a.logger)
		logging.ErrorWithContext(stepLogger, "assembly step failed", "step_failed",
			logging.String("path", path),
			logging.String("failure_kind", services.FailureKind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, stepHint(step)),
		)
		if recorded {
			a.recordFinish(ctx, rs, result, step, err)
		}
		return result, err
	}

	if err := validateRequest(req); err != nil {
		return fail(stepValidate, err, req.Output)
	}

	lock := flock.New(req.Output + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fail(stepLock, services.Wrap(services.ErrConfiguration, stepLock, "acquire", req.Output, err), req.Output)
	}
	if !locked {
		return fail(stepLock, services.Wrap(services.ErrValidation, stepLock, "acquire", req.Output, ErrOutputLocked), req.Output)
	}
	// The lock file is left in place so every run locks the same inode.
	defer func() { _ = lock.Unlock() }()

	duration, err := a.resolveDuration(ctx, req)
	if err != nil {
		return fail(stepDuration, err, req.Narration)
	}
	result.Duration = duration

	recorded = a.recordStart(ctx, rs, req)
	rs.logger.Info("assembly started",
		logging.String(logging.FieldEventType, "assembly_start"),
		logging.String("narration", req.Narration),
		logging.Int("clips", len(req.Clips)),
		logging.Bool("music", req.Music != ""),
		logging.Float64("duration_seconds", duration),
	)

	subtitles := rs.intermediate("captions.ass")
	video := rs.intermediate("video.mp4")
	defer func() {
		if req.KeepIntermediates {
			rs.logger.Info("keeping intermediates",
				logging.String("subtitles", subtitles),
				logging.String("video", video),
			)
			return
		}
		fileutil.RemoveQuietly(rs.logger, subtitles, video)
	}()

	// subtitles
	if err := os.MkdirAll(rs.workDir, 0o755); err != nil {
		return fail(stepSubtitles, services.Wrap(services.ErrConfiguration, stepSubtitles, "create work directory", rs.workDir, err), rs.workDir)
	}
	doc := captions.Build(req.Script, req.Records, duration, a.captions)
	if err := captions.WriteFile(subtitles, doc); err != nil {
		return fail(stepSubtitles, services.Wrap(services.ErrConfiguration, stepSubtitles, "write", subtitles, err), subtitles)
	}
	result.Subtitles = subtitles
	result.CaptionEvents = len(doc.Events)

	// clips
	report, err := a.assembleClips(ctx, rs, req.Clips, duration, video)
	result.UsableClips = len(report.Usable)
	result.DiscardedClips = report.Discarded
	result.Filler = report.Filler
	if err != nil {
		return fail(stepClips, err, video)
	}

	// composition
	in := ComposeInput{
		Video:     video,
		Narration: req.Narration,
		Music:     req.Music,
		Subtitles: subtitles,
		Output:    req.Output,
	}
	if err := a.compose(ctx, rs, in); err != nil {
		return fail(stepCompose, err, req.Output)
	}

	result.Elapsed = time.Since(started)
	if recorded {
		a.recordFinish(ctx, rs, result, "", nil)
	}
	rs.logger.Info("assembly complete",
		logging.String(logging.FieldEventType, "assembly_complete"),
		logging.Int("caption_events", result.CaptionEvents),
		logging.Int("usable_clips", result.UsableClips),
		logging.Int("discarded_clips", len(result.DiscardedClips)),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.Output) == "" {
		return services.Wrap(services.ErrValidation, stepValidate, "output", "output path is required", nil)
	}
	if strings.TrimSpace(req.Narration) == "" {
		return services.Wrap(services.ErrValidation, stepValidate, "narration", "narration path is required", nil)
	}
	if math.IsNaN(req.Duration) || math.IsInf(req.Duration, 0) {
		return services.Wrap(services.ErrValidation, stepValidate, "duration", "duration must be a finite number", nil)
	}
	inputs := append([]string{req.Narration}, req.Clips...)
	if req.Music != "" {
		inputs = append(inputs, req.Music)
	}
	for _, path := range inputs {
		if _, err := ffmpeg.NormalizePath(path); err != nil {
			return services.Wrap(services.ErrValidation, stepValidate, "input path", path, err)
		}
	}
	for _, path := range []string{req.Narration, req.Music} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return services.Wrap(services.ErrNotFound, stepValidate, "input", path, err)
		}
	}
	if _, err := ffmpeg.NormalizePath(req.Output); err != nil {
		return services.Wrap(services.ErrValidation, stepValidate, "output path", req.Output, err)
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, stepValidate, "output directory", filepath.Dir(req.Output), err)
	}
	return nil
}

func (a *Assembler) resolveDuration(ctx context.Context, req Request) (float64, error) {
	if req.Duration > 0 {
		return req.Duration, nil
	}
	if a.probe == nil {
		return 0, services.Wrap(services.ErrValidation, stepDuration, "resolve", "duration not given and no prober configured", nil)
	}
	seconds, err := a.probe.Duration(ctx, req.Narration)
	if err != nil {
		return 0, err
	}
	a.logger.Info("measured narration duration",
		logging.String(logging.FieldEventType, "duration_probed"),
		logging.Float64("duration_seconds", seconds),
	)
	return seconds, nil
}

func (a *Assembler) recordStart(ctx context.Context, rs runState, req Request) bool {
	if a.recorder == nil {
		return false
	}
	err := a.recorder.RecordStart(ctx, history.Start{
		RunID:         rs.id,
		OutputPath:    req.Output,
		NarrationPath: req.Narration,
		MusicPath:     req.Music,
		ClipCount:     len(req.Clips),
	})
	if err != nil {
		logging.WarnWithContext(rs.logger, "failed to record run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will be missing from history"),
		)
		return false
	}
	return true
}

func (a *Assembler) recordFinish(ctx context.Context, rs runState, result Result, step string, runErr error) {
	outcome := history.Outcome{
		Status:          history.StatusSucceeded,
		UsableClips:     result.UsableClips,
		DurationSeconds: result.Duration,
		CaptionEvents:   result.CaptionEvents,
	}
	if runErr != nil {
		outcome.Status = history.StatusFailed
		outcome.FailedStep = step
		outcome.FailureKind = services.FailureKind(runErr)
		outcome.ErrorMessage = runErr.Error()
	}
	// detached so a cancelled run is still recorded
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.recorder.RecordFinish(writeCtx, rs.id, outcome); err != nil {
		logging.WarnWithContext(rs.logger, "failed to record run outcome", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history shows the run as still running"),
		)
	}
}

func stepHint(step string) string {
	switch step {
	case stepValidate:
		return "check the input and output paths"
	case stepLock:
		return "wait for the other render of this output to finish"
	case stepDuration:
		return "pass --duration or install ffprobe"
	case stepSubtitles:
		return "check that the work directory is writable"
	case stepClips:
		return "inspect the clip files with ffprobe"
	case stepCompose:
		return "rerun with log_level = \"info\" under [ffmpeg] for ffmpeg diagnostics"
	default:
		return fmt.Sprintf("check logs for the %s step", step)
	}
}
