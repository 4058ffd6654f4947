// Package main provides the manifest CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"manifest/cmd/manifest/tui"
	"manifest/internal/archive"
	"manifest/internal/clipboard"
	"manifest/internal/config"
	"manifest/internal/gateway"
	"manifest/internal/intention"
	"manifest/internal/logging"
)

const version = "1.0.0"

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "manifest",
	Short: "manifest - intention manifestation from the terminal",
	Long: `manifest refines an intention through the Gemini API, runs the
focus sequence while an anchor image is generated in the background, and
archives the collapsed result locally.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(logging.Options{
			Path:       cfg.LogPath(),
			Level:      level,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the archived intentions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(cfg.ArchivePath(), logger)
		if err != nil {
			return err
		}
		defer store.Close()

		items := store.List()
		if len(items) == 0 {
			fmt.Println("no observed possibilities in this matrix yet")
			return nil
		}
		for _, it := range items {
			anchor := ""
			if it.ImageURL != "" {
				anchor = " [anchored]"
			}
			fmt.Printf("%s  %s  %3d%%  %q%s\n",
				it.ID[:8], it.Timestamp.Format("2006-01-02 15:04"),
				int(it.Resonance*100+0.5), it.Refined, anchor)
		}
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share [id]",
	Short: "Copy an archived intention's summary to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(cfg.ArchivePath(), logger)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, it := range store.List() {
			if it.ID == args[0] || (len(args[0]) >= 8 && len(it.ID) >= 8 && it.ID[:8] == args[0][:8]) {
				if err := clipboard.Copy(intention.ShareText(it)); err != nil {
					logger.Warn("share copy failed", zap.Error(err))
					fmt.Println("could not reach the clipboard")
					return nil
				}
				fmt.Println("copied")
				return nil
			}
		}
		return fmt.Errorf("no archived intention %q", args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the manifest version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("manifest " + version)
	},
}

func runInteractive() error {
	gw, err := gateway.New(context.Background(), gateway.Config{
		APIKey:      cfg.Gateway.APIKey,
		TextModel:   cfg.Gateway.TextModel,
		ImageModel:  cfg.Gateway.ImageModel,
		AspectRatio: cfg.Gateway.AspectRatio,
		Timeout:     config.Duration(cfg.Gateway.Timeout, 0),
		CacheTTL:    config.Duration(cfg.Gateway.CacheTTL, 0),
	}, logger)
	if err != nil {
		return fmt.Errorf("set GEMINI_API_KEY or gateway.api_key in config: %w", err)
	}

	store, err := archive.Open(cfg.ArchivePath(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	model := tui.New(tui.Options{
		Gateway:       gw,
		Archive:       store,
		Logger:        logger,
		TickInterval:  config.Duration(cfg.Focus.TickInterval, 0),
		FlashDuration: config.Duration(cfg.Focus.FlashDuration, 0),
		BurstDuration: config.Duration(cfg.Focus.BurstDuration, 0),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(historyCmd, shareCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
