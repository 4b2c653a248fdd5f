package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/learncricket/internal/app"
	"github.com/abhisek/learncricket/internal/config"
	"github.com/abhisek/learncricket/internal/logging"
	"github.com/abhisek/learncricket/internal/screens/home"
	"github.com/abhisek/learncricket/internal/screens/match"
	"github.com/abhisek/learncricket/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Go straight to the home screen and play",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

// runApp opens the stores, builds the question source and launches the TUI.
func runApp(cmd *cobra.Command, skipIntro bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = config.DefaultLogPath()
	}
	log, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return err
	}
	defer closeLog()

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

	events := st.EventRepo()
	supplies, err := newSupplySource(ctx, cfg, events, log)
	if err != nil {
		return err
	}
	log.Info().Str("supply", supplies.Name()).Str("backend", cfg.Storage.Backend).Msg("starting")
	if supplies.provider == nil && cfg.Supply.Source == config.SourceAuto {
		fmt.Fprintln(os.Stderr, "No LLM API key found; questions come from the built-in bank.")
	}

	recorder := session.NewRecorder(events, log)
	base := cfg.SessionConfig()

	newMatch := func(key string) match.Factory {
		return func(listener session.Listener) (*session.Orchestrator, error) {
			supply, err := supplies.New()
			if err != nil {
				return nil, fmt.Errorf("question supply: %w", err)
			}
			sc := base
			sc.Key = key
			return session.New(sc, session.Deps{
				Supply:    supply,
				Progress:  progress,
				Listeners: []session.Listener{recorder, listener},
				Logger:    log,
			})
		}
	}

	return app.Run(app.Options{
		Home: home.Options{
			Key:      cfg.Session.Key,
			NewMatch: newMatch,
			Progress: progress,
			Events:   events,
			Adaptive: cfg.AdaptiveSelector(),
		},
		SkipIntro: skipIntro,
		Log:       log,
	})
}

// consoleLogger returns a stderr logger for the plain commands.
func consoleLogger() (zerolog.Logger, error) {
	log, _, err := logging.New(logging.Options{Level: cfg.Log.Level})
	return log, err
}
