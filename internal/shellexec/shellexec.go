// SPDX-License-Identifier: MPL-2.0

// Package shellexec executes resolved commands with the embedded POSIX shell
// interpreter (mvdan/sh). It is the execution collaborator behind
// dispatch.Executor: the registry resolves, shellexec runs.
package shellexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"plugrun/internal/dispatch"
)

// ExitStatusError reports a command script that completed with a non-zero
// exit status.
type ExitStatusError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Runner executes command scripts in-process. The interpreter is always
// available; no external shell is required.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Execute runs the resolved command's script. The script receives the
// context's arguments as positional parameters ($1, $2, ...), the options
// environment on top of the process environment, and the IO streams from
// the options (defaulting to the process streams).
//
// A non-zero exit from the script is reported as *ExitStatusError; all
// other failures wrap their cause.
func (r *Runner) Execute(ctx context.Context, ec *dispatch.Context) error {
	if ec.Command == nil {
		return fmt.Errorf("shellexec: context has no resolved command")
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(ec.Command.Script), ec.Command.Name)
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	workDir := resolveWorkDir(ec)

	stdin := ec.Options.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := ec.Options.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := ec.Options.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	opts := []interp.RunnerOption{
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(buildEnv(ec)...)),
		interp.StdIO(stdin, stdout, stderr),
	}

	// Prepend "--" to signal end of options; without it, args like "-v" or
	// "--skip-check" are interpreted as shell options by interp.Params.
	if len(ec.Arguments) > 0 {
		params := append([]string{"--"}, ec.Arguments...)
		opts = append(opts, interp.Params(params...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if ec.Options.Verbose {
		log.Debug("executing command script",
			"namespace", ec.Plugin.Namespace,
			"command", ec.Command.Name,
			"args", ec.StringArguments,
			"workdir", workDir)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ExitStatusError{Code: int(exitStatus)}
		}
		return fmt.Errorf("script execution failed: %w", err)
	}

	return nil
}

// resolveWorkDir picks the working directory for execution: the options
// override wins, then the command's workdir (relative paths resolve against
// the plugin directory), then the plugin directory itself, then the current
// directory.
func resolveWorkDir(ec *dispatch.Context) string {
	if ec.Options.WorkDir != "" {
		return ec.Options.WorkDir
	}

	pluginDir := ""
	if ec.Plugin != nil {
		pluginDir = ec.Plugin.Dir
	}

	if ec.Command.WorkDir != "" {
		if filepath.IsAbs(ec.Command.WorkDir) || pluginDir == "" {
			return ec.Command.WorkDir
		}
		return filepath.Join(pluginDir, ec.Command.WorkDir)
	}

	if pluginDir != "" {
		return pluginDir
	}
	return "."
}

// buildEnv layers the options environment and the dispatch metadata vars on
// top of the process environment. Option vars are appended in sorted key
// order so repeated runs see identical environments.
func buildEnv(ec *dispatch.Context) []string {
	env := os.Environ()

	keys := make([]string, 0, len(ec.Options.Env))
	for k := range ec.Options.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+ec.Options.Env[k])
	}

	if ec.Plugin != nil {
		env = append(env, "PLUGRUN_NAMESPACE="+ec.Plugin.Namespace)
	}
	env = append(env,
		"PLUGRUN_COMMAND="+ec.Command.Name,
		"PLUGRUN_ARGS="+ec.StringArguments,
	)

	return env
}
