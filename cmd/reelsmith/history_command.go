package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelsmith/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent assembly runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Run", "Status", "Output", "Length", "Clips", "Took", "Failure"},
				historyRows(runs, shouldColorize(out)),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in detail (a unique id prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", run.RunID)
			fmt.Fprintf(out, "  status:    %s\n", statusCell(string(run.Status), runStatusKind(run.Status), shouldColorize(out)))
			fmt.Fprintf(out, "  started:   %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
			if elapsed := run.Elapsed(); elapsed > 0 {
				fmt.Fprintf(out, "  took:      %s\n", elapsed.Round(100*time.Millisecond))
			}
			fmt.Fprintf(out, "  output:    %s\n", run.OutputPath)
			fmt.Fprintf(out, "  narration: %s\n", run.NarrationPath)
			if run.MusicPath != "" {
				fmt.Fprintf(out, "  music:     %s\n", run.MusicPath)
			}
			fmt.Fprintf(out, "  duration:  %.2fs\n", run.DurationSeconds)
			fmt.Fprintf(out, "  clips:     %d/%d usable\n", run.UsableClips, run.ClipCount)
			fmt.Fprintf(out, "  captions:  %d events\n", run.CaptionEvents)
			if run.FailedStep != "" {
				fmt.Fprintf(out, "  failed:    %s (%s)\n", run.FailedStep, run.FailureKind)
				fmt.Fprintf(out, "  error:     %s\n", run.ErrorMessage)
			}
			return nil
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished runs older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age cutoff")
	return cmd
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled (set [history] enabled = true in %s)", ctx.configPath)
	}
	return history.Open(cfg)
}

func historyRows(runs []history.Run, colorize bool) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		kind := runStatusKind(run.Status)
		failure := ""
		if run.FailedStep != "" {
			failure = run.FailedStep + " (" + run.FailureKind + ")"
		}
		took := ""
		if elapsed := run.Elapsed(); elapsed > 0 {
			took = elapsed.Round(100 * time.Millisecond).String()
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(run.RunID),
			statusCell(string(run.Status), kind, colorize),
			filepath.Base(run.OutputPath),
			strconv.FormatFloat(run.DurationSeconds, 'f', 1, 64) + "s",
			strconv.Itoa(run.UsableClips) + "/" + strconv.Itoa(run.ClipCount),
			took,
			failure,
		})
	}
	return rows
}

func runStatusKind(status history.Status) statusKind {
	switch status {
	case history.StatusSucceeded:
		return statusOK
	case history.StatusFailed:
		return statusError
	default:
		return statusInfo
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
