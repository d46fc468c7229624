package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/assembly"
	"reelsmith/internal/history"
	"reelsmith/internal/logging"
	"reelsmith/internal/media/ffprobe"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var (
		req     assembly.Request
		scripts scriptFlags
	)

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Render a captioned vertical video from narration and clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if req.Script, err = scripts.readScript(); err != nil {
				return err
			}
			req.Records = scripts.loadTimestamps(logger)

			assembler := assembly.New(cfg, logger)
			assembler.WithProber(ffprobe.New(cfg.FFprobeBinary()))
			if cfg.History.Enabled {
				store, err := history.Open(cfg)
				if err != nil {
					logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
						logging.Error(err),
						logging.String(logging.FieldImpact, "this run will not appear in `reelsmith history`"),
					)
				} else {
					defer store.Close()
					assembler.WithRecorder(store)
				}
			}

			result, err := assembler.Assemble(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %s\n", result.Output)
			fmt.Fprintf(out, "  run:       %s\n", result.RunID)
			fmt.Fprintf(out, "  duration:  %.2fs\n", result.Duration)
			fmt.Fprintf(out, "  captions:  %d events\n", result.CaptionEvents)
			switch {
			case result.Filler:
				fmt.Fprintln(out, "  clips:     none (filler background)")
			default:
				fmt.Fprintf(out, "  clips:     %d usable\n", result.UsableClips)
			}
			if len(result.DiscardedClips) > 0 {
				fmt.Fprintf(out, "  discarded: %s\n", strings.Join(result.DiscardedClips, ", "))
			}
			if req.KeepIntermediates {
				fmt.Fprintf(out, "  subtitles: %s\n", result.Subtitles)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.Output, "output", "o", "", "Destination MP4 path")
	flags.StringVarP(&req.Narration, "narration", "n", "", "Narration audio file")
	flags.StringArrayVar(&req.Clips, "clip", nil, "B-roll clip (repeatable, used in order)")
	flags.StringVar(&req.Music, "music", "", "Optional background music file")
	flags.Float64Var(&req.Duration, "duration", 0, "Video length in seconds (default: narration length)")
	flags.BoolVar(&req.KeepIntermediates, "keep-intermediates", false, "Keep the caption file and assembled clip track")
	flags.StringVar(&scripts.script, "script", "", "Narration script text")
	flags.StringVar(&scripts.scriptFile, "script-file", "", "File containing the narration script")
	flags.StringVar(&scripts.timestamps, "timestamps", "", "JSON word or character timestamps")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("narration")
	cmd.MarkFlagsMutuallyExclusive("script", "script-file")
	return cmd
}
