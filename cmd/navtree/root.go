package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/wikinav/internal/content"
	"github.com/dgallion1/wikinav/internal/expansion"
	"github.com/dgallion1/wikinav/internal/statestore"
)

// cliPrefix is where CLI expansion state lives in the state directory.
const cliPrefix = "wikinav/cli/"

var (
	wikiDir  string
	stateDir string
	verbose  bool

	manager *expansion.Manager
)

var rootCmd = &cobra.Command{
	Use:   "navtree",
	Short: "Browse a wiki's navigation tree from the terminal",
	Long: `navtree builds the navigation tree for a wiki directory and lets you
expand and collapse its directories. Expansion state is saved in the state
directory and restored on the next run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		m, err := openManager(cmd.Context())
		if err != nil {
			return err
		}
		manager = m
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&wikiDir, "wiki", "w", envOr("WIKI_DIR", "wiki"), "wiki content directory")
	rootCmd.PersistentFlags().StringVarP(&stateDir, "state", "s", envOr("STATE_DIR", ".wikinav"), "directory for saved expansion state")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log content loading details")
}

func openManager(ctx context.Context) (*expansion.Manager, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	lib, err := content.NewLibrary(content.Config{Dir: wikiDir}, log)
	if err != nil {
		return nil, err
	}
	if err := lib.Load(ctx); err != nil {
		return nil, fmt.Errorf("load %s: %w", wikiDir, err)
	}

	store := statestore.Prefixed(statestore.NewFile(stateDir), cliPrefix)
	return expansion.NewManager(ctx, lib.Tree(), store, expansion.WithLogger(log)), nil
}

// warnUnsaved reports a failed save without failing the command.
func warnUnsaved(cmd *cobra.Command) {
	if _, werr := manager.LastErrors(); werr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("warning: "+werr.Error()))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
