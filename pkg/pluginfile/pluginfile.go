// SPDX-License-Identifier: MPL-2.0

// Package pluginfile defines the plugin manifest format and loads plugin
// bundles from disk. A plugin is a named bundle of commands: the namespace
// selects the plugin during dispatch and each command carries a shell script
// to execute.
package pluginfile

import (
	"fmt"
)

type (
	// Plugin is a named bundle of commands, loaded as a unit from a plugin
	// directory. Once loaded a Plugin is never mutated.
	Plugin struct {
		// Namespace is the top-level identifier selecting this plugin during
		// dispatch. It must be unique across registered plugins; lookup
		// returns the first match.
		Namespace string `json:"namespace" toml:"namespace"`
		// Description provides help text for the plugin (optional).
		Description string `json:"description,omitempty" toml:"description,omitempty"`
		// Commands is the ordered list of commands. Order is significant:
		// command resolution returns the first name that matches, so longer
		// overlapping names must come first.
		Commands []Command `json:"commands" toml:"commands"`

		// Dir is the directory the manifest was loaded from. Empty for
		// plugins constructed in memory.
		Dir string `json:"-" toml:"-"`
	}

	// Command is a named, described, executable unit within a plugin.
	Command struct {
		// Name is the command identifier, used both for display and as the
		// matching prefix during resolution.
		Name string `json:"name" toml:"name"`
		// Description provides help text for the command (optional).
		Description string `json:"description,omitempty" toml:"description,omitempty"`
		// Script is the shell script executed when the command is dispatched.
		Script string `json:"script" toml:"script"`
		// WorkDir overrides the working directory for execution (optional).
		// Relative paths resolve against the plugin directory.
		WorkDir string `json:"workdir,omitempty" toml:"workdir,omitempty"`
	}

	// LoadError reports a failure to load a plugin from a directory. The
	// plugin must not be registered when a LoadError is returned.
	LoadError struct {
		// Dir is the directory that failed to load.
		Dir string
		// Cause is the underlying error.
		Cause error
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load plugin from %s: %v", e.Dir, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Validate checks structural requirements beyond what the manifest schema
// enforces: non-blank namespace, at least one command, non-blank command
// names and scripts, and no duplicate command names.
func (p *Plugin) Validate() error {
	if p.Namespace == "" {
		return fmt.Errorf("plugin namespace must not be empty")
	}
	if len(p.Commands) == 0 {
		return fmt.Errorf("plugin %q defines no commands", p.Namespace)
	}

	seen := make(map[string]bool, len(p.Commands))
	for i := range p.Commands {
		c := &p.Commands[i]
		if c.Name == "" {
			return fmt.Errorf("plugin %q: command %d has no name", p.Namespace, i)
		}
		if c.Script == "" {
			return fmt.Errorf("plugin %q: command %q has no script", p.Namespace, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("plugin %q: duplicate command name %q", p.Namespace, c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}
