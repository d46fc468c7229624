package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/captions"
	"reelsmith/internal/media/ffprobe"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	var (
		output    string
		narration string
		duration  float64
		scripts   scriptFlags
	)

	cmd := &cobra.Command{
		Use:   "captions",
		Short: "Write the karaoke caption track as an ASS file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			script, err := scripts.readScript()
			if err != nil {
				return err
			}
			records := scripts.loadTimestamps(logger)

			if duration <= 0 {
				if strings.TrimSpace(narration) == "" {
					return errors.New("--duration must be positive (or pass --narration to measure it)")
				}
				duration, err = ffprobe.New(cfg.FFprobeBinary()).Duration(cmd.Context(), narration)
				if err != nil {
					return err
				}
			}

			doc := captions.Build(script, records, duration, captions.OptionsFromConfig(cfg))
			if err := captions.WriteFile(output, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d caption events to %s\n", len(doc.Events), output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Destination .ass path")
	flags.Float64Var(&duration, "duration", 0, "Narration length in seconds")
	flags.StringVar(&narration, "narration", "", "Narration file to measure when --duration is omitted")
	flags.StringVar(&scripts.script, "script", "", "Narration script text")
	flags.StringVar(&scripts.scriptFile, "script-file", "", "File containing the narration script")
	flags.StringVar(&scripts.timestamps, "timestamps", "", "JSON word or character timestamps")
	_ = cmd.MarkFlagRequired("output")
	cmd.MarkFlagsMutuallyExclusive("script", "script-file")
	return cmd
}
