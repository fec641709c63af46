// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for plugrun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"plugrun/internal/config"
	"plugrun/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// pluginDirs are plugin directories registered ahead of the search paths
	pluginDirs []string

	// cfg is the loaded configuration, populated by initRootConfig.
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "plugrun",
		Short: "A pluggable command dispatcher",
		Long: TitleStyle.Render("plugrun") + SubtitleStyle.Render(" - A pluggable command dispatcher") + `

plugrun dispatches namespaced commands defined by plugins. A plugin is a
directory holding a manifest ('plugin.cue' or 'plugin.toml') that names a
namespace and an ordered list of commands; each command carries a shell
script executed by the built-in POSIX interpreter (mvdan/sh).

Plugins are discovered from the configured search paths, from
~/.plugrun/plugins, and from any --plugin-dir flag.

` + SubtitleStyle.Render("Examples:") + `
  plugrun list                       List every registered command
  plugrun run app generate Model     Dispatch 'generate Model' to the 'app' plugin
  plugrun run app generate -- --dry  Everything after the namespace is the argument string`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/plugrun/config.toml)")
	rootCmd.PersistentFlags().StringArrayVar(&pluginDirs, "plugin-dir", nil, "plugin directory to register (repeatable)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// fang overrides rootCmd.Version, so the version goes through WithVersion
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Config problems are surfaced but never fatal; defaults still work
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if loaded != nil {
		cfg = loaded
	}

	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own Format method; in verbose mode that includes the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
