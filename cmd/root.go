package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/learncricket/internal/config"
	"github.com/abhisek/learncricket/internal/store"
)

// cfg is loaded once per invocation by the root command's pre-run.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "learncricket",
	Short: "Cricket quiz where fast answers score runs",
	Long: `LearnCricket is a terminal quiz about cricket played as an innings.
Answer quickly to hit boundaries; a wrong answer costs a wicket.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNCRICKET_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides LEARNCRICKET_CONFIG env var)")
	rootCmd.PersistentFlags().StringP("key", "k", "", "Player name whose progress is used")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file to load before reading the environment")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the dotenv file, then the config file and environment,
// then applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.Storage.DBPath = p
	}
	if k, _ := cmd.Flags().GetString("key"); k != "" {
		c.Session.Key = k
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db / storage.db_path
// first, then LEARNCRICKET_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Storage.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the SQLite store holding the event log.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
