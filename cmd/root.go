/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mpriess/scrobblekit/internal/config"
	"github.com/mpriess/scrobblekit/internal/scrobbler"
	"github.com/mpriess/scrobblekit/internal/store"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scrobblekit",
	Short: "Last.fm submission client",
	Long: `scrobblekit is a session-authenticated submission client for Last.fm.

It manages a stored session credential, enforces the rolling daily
submission quota, submits play records in batches of 50, and exposes
auxiliary metadata lookups (loved state, play counts, tags, now playing).`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// setupLogger builds the application logger writing to stderr.
func setupLogger(logLevel string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch logLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// newService wires config, storage, and the scrobbler core for a command.
// The returned cleanup closes the store and must be deferred.
func newService(cmd *cobra.Command) (*scrobbler.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		logLevel = flag
	}
	logger := setupLogger(logLevel)

	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		return nil, nil, fmt.Errorf("missing Last.fm API credentials; run 'scrobblekit auth' first")
	}

	st, err := store.Open(cfg.StorePath, cfg.PluginName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	svc, err := scrobbler.New(scrobbler.Config{
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.APISecret,
		PluginName: cfg.PluginName,
		Logger:     logger,
		LinkOpener: browserOpener{},
	}, st, st)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	cleanup := func() { _ = st.Close() }
	return svc, cleanup, nil
}
