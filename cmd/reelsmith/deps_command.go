package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsmith/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that ffmpeg and ffprobe are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				label, kind := "available", statusOK
				switch {
				case !s.Available && s.Optional:
					label, kind = "missing (optional)", statusWarn
				case !s.Available:
					label, kind = "missing", statusError
				}
				location := s.Path
				if location == "" {
					location = s.Detail
				}
				rows = append(rows, []string{s.Name, s.Command, statusCell(label, kind, colorize), location, s.Description})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status", "Location", "Purpose"},
				rows,
				nil,
			))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("required tools missing: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
