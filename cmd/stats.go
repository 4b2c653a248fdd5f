package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/performance"
	"github.com/abhisek/learncricket/internal/topics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime statistics for a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		progress, closeProgress, err := openProgress(ctx, cfg, st)
		if err != nil {
			return err
		}
		defer closeProgress()

		key := cfg.Session.Key
		data, err := progress.Load(ctx, key)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		out := cmd.OutOrStdout()
		if data == nil {
			fmt.Fprintf(out, "No saved progress for %s yet.\n", key)
			return nil
		}

		sel := cfg.AdaptiveSelector()
		tracker := performance.NewTracker(data, sel.MinAttempts)
		agg := tracker.Aggregate()
		totals := tracker.Innings()
		rec := adaptive.NewSelector(sel).Recommend(agg)

		fmt.Fprintf(out, "Player:    %s\n", key)
		fmt.Fprintf(out, "Innings:   %d played, %d runs off %d balls, %d wickets\n",
			totals.Played, totals.Runs, totals.Balls, totals.Wickets)
		fmt.Fprintf(out, "Best:      %d runs\n", totals.BestRuns)
		fmt.Fprintf(out, "Answers:   %d/%d correct (%.0f%%), avg %.1fs, best streak %d\n",
			agg.Correct(), agg.Attempted(), agg.Accuracy()*100, agg.AverageResponseSeconds(), agg.BestStreak)
		fmt.Fprintf(out, "Level:     %s, next pitch %s\n", rec.Level, rec.Difficulty)
		if len(rec.FocusTopics) > 0 {
			names := make([]string, len(rec.FocusTopics))
			for i, t := range rec.FocusTopics {
				names[i] = topics.DisplayName(t)
			}
			fmt.Fprintf(out, "Focus:     %s\n", strings.Join(names, ", "))
		}

		if len(agg.Topics) == 0 {
			return nil
		}

		names := make([]topics.Topic, 0, len(agg.Topics))
		for t := range agg.Topics {
			names = append(names, t)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

		t := newCLITable("Topic", "Attempted", "Correct", "Accuracy")
		for _, name := range names {
			b := agg.Topics[name]
			t.Row(topics.DisplayName(name), strconv.Itoa(b.Attempted), strconv.Itoa(b.Correct),
				fmt.Sprintf("%.0f%%", b.Accuracy()*100))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, t.String())
		return nil
	},
}
