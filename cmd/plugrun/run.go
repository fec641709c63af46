// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"plugrun/internal/config"
	"plugrun/internal/discovery"
	"plugrun/internal/dispatch"
	"plugrun/internal/issue"
	"plugrun/internal/shellexec"
)

var (
	// workDirOverride overrides the working directory for execution
	workDirOverride string
	// envVars are extra KEY=VALUE environment variables for the script
	envVars []string
)

// runCmd dispatches one command through the plugin registry.
var runCmd = &cobra.Command{
	Use:   "run <namespace> [arguments...]",
	Short: "Dispatch a command inside a registered plugin",
	Long: `Dispatch a command inside a registered plugin.

The first argument selects the plugin by namespace; everything after it is
handed to the plugin as one argument string. The first declared command
whose name prefixes that string wins, and the rest of the string becomes
the command's own arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		namespace := args[0]
		fullArguments := strings.Join(args[1:], " ")

		rt, err := buildRuntime()
		if err != nil {
			return err
		}

		extraEnv, err := parseEnvVars(envVars)
		if err != nil {
			return err
		}

		ec, err := rt.Run(cmd.Context(), namespace, fullArguments, dispatch.Options{
			Stdin:   os.Stdin,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
			Env:     extraEnv,
			WorkDir: workDirOverride,
			Verbose: verbose,
		})
		if err != nil {
			var exitErr *shellexec.ExitStatusError
			if errors.As(err, &exitErr) {
				return &ExitError{Code: exitErr.Code, Err: err}
			}
			return err
		}

		switch ec.State() {
		case dispatch.StateCreated:
			renderIssue(issue.NamespaceNotFoundId)
			return &ExitError{Code: 1, Err: fmt.Errorf("no plugin registered for namespace %q", namespace)}
		case dispatch.StatePluginResolved:
			renderIssue(issue.CommandNotFoundId)
			return &ExitError{Code: 1, Err: fmt.Errorf("no command in %q matches %q", namespace, fullArguments)}
		default:
			return nil
		}
	},
}

func init() {
	runCmd.Flags().StringVarP(&workDirOverride, "workdir", "w", "", "override the working directory for the command script")
	runCmd.Flags().StringArrayVarP(&envVars, "env", "E", nil, "extra KEY=VALUE environment variable (repeatable)")
}

// buildRuntime constructs the dispatch runtime and populates it: explicit
// --plugin-dir flags first (load failures are fatal), then the user plugins
// directory and configured search paths (load failures are warnings).
func buildRuntime() (*dispatch.Runtime, error) {
	rt := dispatch.New(shellexec.NewRunner())

	for _, dir := range pluginDirs {
		if _, err := rt.AddPluginFromDirectory(dir); err != nil {
			renderIssue(issue.PluginDirNotFoundId)
			return nil, issue.WrapWithContext(err, "load plugin", dir)
		}
	}

	searchPaths := cfg.SearchPaths
	if userDir, err := config.PluginsDir(); err == nil {
		searchPaths = append([]string{userDir}, searchPaths...)
	}
	discovery.PopulateRuntime(rt, searchPaths)

	if err := rt.CheckNamespaceCollisions(); err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
	}

	return rt, nil
}

// parseEnvVars turns repeated KEY=VALUE flags into a map.
func parseEnvVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env value %q, expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}

// renderIssue prints the catalog entry for id to stderr, falling back to
// nothing if rendering fails (the caller still returns a plain error).
func renderIssue(id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	out, err := entry.Render(styleForScheme(cfg.UI.ColorScheme))
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, out)
}

// styleForScheme maps the configured color scheme to a glamour style name.
func styleForScheme(scheme string) string {
	switch scheme {
	case "light":
		return "light"
	case "dark":
		return "dark"
	default:
		return "auto"
	}
}
