package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/headache-tracker/internal/config"
	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/logstore"
	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/storage"
	"github.com/Tiliavir/headache-tracker/internal/tabular"
	"github.com/Tiliavir/headache-tracker/internal/uistate"
)

var (
	flagDataDir  string
	flagBackend  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "headache",
	Short: "Headache tracker – log episodes and chart trends",
	Long: `headache is a single-binary headache diary.
Entries are kept in a small cookie-sized record under ~/.headache/
and can be charted over a trailing window, exported and imported as CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.headache)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: file, sqlite")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(panelsCmd)
	rootCmd.AddCommand(serveCmd)
}

// app bundles everything a command needs once configuration is resolved.
type app struct {
	cfg     config.Config
	log     logging.Logger
	dataDir string
	adapter *storage.Adapter
	store   *logstore.Store
	ui      *uistate.Store
}

// openApp resolves configuration (file, environment, then flags), sets up
// logging and loads the entry log. Failures exit with code 2.
func openApp(ctx context.Context) *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.Setup(cfg.LogLevel, os.Stderr)

	dir, err := cfg.ResolveDataDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	backend, err := storage.OpenBackend(ctx, cfg.Backend, dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	enc, _ := storage.ParseEncoding(cfg.Encoding)
	adapter := storage.NewAdapter(backend, storage.Options{
		Encoding: enc,
		Capacity: cfg.Capacity(),
		Log:      log,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		dataDir: dir,
		adapter: adapter,
		store:   logstore.Open(ctx, adapter, log),
		ui:      uistate.New(dir, log),
	}
}

func (a *app) close() {
	if err := a.adapter.Close(); err != nil {
		a.log.Error(context.Background(), fmt.Errorf("closing storage: %w", err), nil)
	}
}

// applyFlags overrides cfg with persistent flags that were set explicitly.
func applyFlags(cfg *config.Config) {
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
}

// exitOnWriteError reports a failed mutation and exits: code 3 when the
// change was applied but could not be saved, 1 for rejected input, 2 otherwise.
func exitOnWriteError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, errorMessage(err))
	os.Exit(exitCode(err))
}

func errorMessage(err error) string {
	var durErr *logstore.DurabilityError
	switch {
	case errors.As(err, &durErr):
		return "Warning: " + durErr.Error() + "."
	case errors.Is(err, tabular.ErrNoValidRows):
		return err.Error() + ". The log was not changed."
	}
	return err.Error()
}

func exitCode(err error) int {
	var (
		durErr *logstore.DurabilityError
		valErr *model.ValidationError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &durErr):
		return 3
	case errors.As(err, &valErr), errors.Is(err, logstore.ErrImportInFlight), errors.Is(err, tabular.ErrNoValidRows):
		return 1
	default:
		return 2
	}
}
