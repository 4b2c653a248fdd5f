package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a player's saved progress",
	Long: `Delete the saved progress (topic accuracy, streaks, innings totals) for
the player selected with --key. The innings history is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		key := cfg.Session.Key

		if !yes {
			fmt.Printf("Delete all saved progress for %q? [y/N] ", key)
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() {
				return fmt.Errorf("no confirmation given")
			}
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if answer != "y" && answer != "yes" {
				fmt.Println("Nothing deleted.")
				return nil
			}
		}

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

		if err := progress.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		fmt.Printf("Progress for %s deleted.\n", key)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
