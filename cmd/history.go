package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent innings",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{SessionKey: cfg.Session.Key}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		if all, _ := cmd.Flags().GetBool("all"); all {
			opts.SessionKey = ""
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySessions(context.Background(), opts, store.ActionEnd, store.ActionAbort)
		if err != nil {
			return fmt.Errorf("query innings: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No innings found.")
			return nil
		}

		t := newCLITable("Date", "Player", "Score", "Overs", "Result", "Time")
		for _, e := range events {
			t.Row(
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.SessionKey, 12),
				fmt.Sprintf("%d/%d", e.Runs, e.Wickets),
				innings.OversNotation(e.Balls, e.BallsPerOver),
				inningsResult(e),
				fmt.Sprintf("%d:%02d", e.DurationSecs/60, e.DurationSecs%60),
			)
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

// inningsResult is "declared" for an abandoned innings, otherwise the
// final status, e.g. "all out".
func inningsResult(e store.SessionEvent) string {
	if e.Action == store.ActionAbort {
		return "declared"
	}
	return strings.ReplaceAll(e.Status, "_", " ")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of innings to show")
	historyCmd.Flags().Bool("all", false, "Show every player, not just --key")
}
