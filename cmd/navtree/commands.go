package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/wikinav/internal/expansion"
)

var showAll bool

var errRootToggle = errors.New("the root directory is always open")

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the navigation tree",
	Long: `Print the navigation tree. Collapsed directories hide their contents
unless --all is given.

Example:
  navtree tree --wiki ./docs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderView(cmd.OutOrStdout(), manager.View(), showAll)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <dir>",
	Short: "Expand or collapse a directory",
	Long: `Expand a collapsed directory or collapse an expanded one. Collapsing a
directory also collapses everything below it.

Example:
  navtree toggle /topic/sub-topic`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := expansion.ParseDirID(args[0])
		if err != nil {
			return err
		}
		if id == expansion.RootID {
			return errRootToggle
		}
		view, err := manager.Toggle(cmd.Context(), id)
		if err != nil {
			return err
		}
		warnUnsaved(cmd)
		renderView(cmd.OutOrStdout(), view, showAll)
		return nil
	},
}

var expandedCmd = &cobra.Command{
	Use:   "expanded",
	Short: "List expanded directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range manager.Expanded() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Collapse every directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := manager.Reset(cmd.Context())
		warnUnsaved(cmd)
		renderView(cmd.OutOrStdout(), view, showAll)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show contents of collapsed directories")
	toggleCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show contents of collapsed directories")
	rootCmd.AddCommand(treeCmd, toggleCmd, expandedCmd, resetCmd)
}
