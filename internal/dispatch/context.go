// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"io"

	"plugrun/pkg/pluginfile"
)

const (
	// StateCreated indicates no plugin matched the namespace.
	StateCreated State = iota
	// StatePluginResolved indicates a plugin matched but no command did.
	StatePluginResolved
	// StateCommandResolved indicates plugin and command matched; execution
	// has not completed (it either failed or was never attempted).
	StateCommandResolved
	// StateExecuted indicates the executor completed without error.
	StateExecuted
)

type (
	// State tracks how far a dispatch progressed. It only ever moves
	// forward: Created -> PluginResolved -> CommandResolved -> Executed.
	State int

	// Options is the closed configuration set passed through Run unchanged.
	// The registry never interprets these fields; only the Executor does.
	Options struct {
		// Stdin, Stdout and Stderr are the IO streams for execution.
		// Nil streams default to the process streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Env contains extra environment variables for the command script.
		Env map[string]string
		// WorkDir overrides the working directory for execution.
		WorkDir string
		// Verbose enables verbose execution logging.
		Verbose bool
	}

	// Context is the per-invocation record of one dispatch attempt. It is
	// created fresh at the start of each Run call, never reused, and owned
	// by the caller once Run returns.
	//
	// Population is monotonic: Command is only set when Plugin is set, and
	// Arguments only when Command is set.
	Context struct {
		// FullArguments is the original raw argument string.
		FullArguments string
		// Options is the pass-through execution configuration.
		Options Options
		// Plugin is the resolved plugin, nil if resolution stopped earlier.
		Plugin *pluginfile.Plugin
		// Command is the resolved command, nil if resolution stopped earlier.
		Command *pluginfile.Command
		// Arguments holds the command's own arguments, populated only on
		// full resolution.
		Arguments []string
		// StringArguments is Arguments rejoined with single spaces. This is
		// a normalized re-serialization, not necessarily byte-identical to
		// the original trailing substring.
		StringArguments string

		state State
	}

	// Executor is the execution collaborator bound to a fully resolved
	// Context. Implementations perform the command's side effects and
	// report completion through the returned error.
	Executor interface {
		Execute(ctx context.Context, ec *Context) error
	}
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePluginResolved:
		return "plugin resolved"
	case StateCommandResolved:
		return "command resolved"
	case StateExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// State reports how far this dispatch progressed.
func (c *Context) State() State {
	return c.state
}
