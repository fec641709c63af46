// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plugrun/pkg/pluginfile"
)

// ErrNoExecutor is returned by Run when the Runtime was constructed without
// an execution collaborator and dispatch reached the execution stage.
var ErrNoExecutor = errors.New("dispatch: no executor configured")

type (
	// Runtime owns the set of registered plugins and orchestrates one
	// end-to-end dispatch per Run call.
	//
	// The plugin list is append-only and is not synchronized: registration
	// must complete before dispatch begins. Concurrent Run calls are safe
	// once registration is done, since Run never mutates the registry.
	Runtime struct {
		plugins []*pluginfile.Plugin
		exec    Executor
	}

	// CommandListing is one row of ListCommands output.
	CommandListing struct {
		// Plugin is the owning plugin's namespace.
		Plugin string
		// Command is the command name.
		Command string
		// Description is the command's help text.
		Description string
	}

	// NamespaceCollisionError reports two registered plugins sharing a
	// namespace. The later registration is unreachable by lookup.
	NamespaceCollisionError struct {
		Namespace    string
		FirstSource  string
		SecondSource string
	}
)

// Error implements the error interface.
func (e *NamespaceCollisionError) Error() string {
	return fmt.Sprintf(
		"namespace collision: %q registered by both:\n  - %s\n  - %s\nthe second registration is unreachable",
		e.Namespace, e.FirstSource, e.SecondSource)
}

// New creates a Runtime dispatching through exec.
func New(exec Executor) *Runtime {
	return &Runtime{exec: exec}
}

// AddPlugin appends p to the registered set. No uniqueness check is
// performed: a duplicate namespace is simply unreachable by lookup, since
// FindPlugin returns the first match. Use CheckNamespaceCollisions to detect
// shadowed registrations.
func (r *Runtime) AddPlugin(p *pluginfile.Plugin) {
	r.plugins = append(r.plugins, p)
}

// AddPluginFromDirectory loads the plugin manifest in dir, registers the
// plugin and returns it. On load failure the returned error is a
// *pluginfile.LoadError and nothing is registered: loading and registration
// are atomic.
func (r *Runtime) AddPluginFromDirectory(dir string) (*pluginfile.Plugin, error) {
	p, err := pluginfile.LoadFromDirectory(dir)
	if err != nil {
		return nil, err
	}
	r.AddPlugin(p)
	return p, nil
}

// Plugins returns the registered plugins in registration order.
func (r *Runtime) Plugins() []*pluginfile.Plugin {
	out := make([]*pluginfile.Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// ListCommands flattens every registered plugin's commands into one listing,
// ordered by plugin registration order, then by command declaration order.
func (r *Runtime) ListCommands() []CommandListing {
	var listings []CommandListing
	for _, p := range r.plugins {
		for i := range p.Commands {
			listings = append(listings, CommandListing{
				Plugin:      p.Namespace,
				Command:     p.Commands[i].Name,
				Description: p.Commands[i].Description,
			})
		}
	}
	return listings
}

// FindPlugin returns the first registered plugin whose namespace equals the
// input exactly (case-sensitive, no trimming). The second return value is
// false when no plugin matches.
func (r *Runtime) FindPlugin(namespace string) (*pluginfile.Plugin, bool) {
	for _, p := range r.plugins {
		if p.Namespace == namespace {
			return p, true
		}
	}
	return nil, false
}

// FindCommand scans p's commands in declaration order and returns the first
// whose name is a case-sensitive prefix of the trimmed argument string.
//
// The prefix test is plain substring-at-start, not token-boundary aware: a
// command named "g" matches the input "generate foo". Declaration order is
// therefore significant; longer overlapping names must be declared before
// shorter ones or they become unreachable.
//
// Returns false when p is nil, fullArguments is blank, no command is
// declared, or no name matches.
func (r *Runtime) FindCommand(p *pluginfile.Plugin, fullArguments string) (*pluginfile.Command, bool) {
	if p == nil || len(p.Commands) == 0 {
		return nil, false
	}

	trimmed := strings.TrimSpace(fullArguments)
	if trimmed == "" {
		return nil, false
	}

	for i := range p.Commands {
		if strings.HasPrefix(trimmed, p.Commands[i].Name) {
			return &p.Commands[i], true
		}
	}
	return nil, false
}

// CheckNamespaceCollisions returns a *NamespaceCollisionError for the first
// pair of registered plugins sharing a namespace, or nil when all namespaces
// are distinct.
func (r *Runtime) CheckNamespaceCollisions() error {
	sources := make(map[string]string, len(r.plugins))
	for _, p := range r.plugins {
		src := p.Dir
		if src == "" {
			src = "<in-memory>"
		}
		if first, exists := sources[p.Namespace]; exists {
			return &NamespaceCollisionError{
				Namespace:    p.Namespace,
				FirstSource:  first,
				SecondSource: src,
			}
		}
		sources[p.Namespace] = src
	}
	return nil
}

// Run performs one end-to-end dispatch: resolve the plugin by namespace,
// resolve the command by argument prefix, partition the arguments and invoke
// the executor.
//
// Run never returns a nil Context. A resolution miss at any stage returns
// the partially populated Context with a nil error; callers distinguish
// "not found" from "found" by inspecting State (or which fields are set).
// Executor failures propagate unmodified alongside the Context.
func (r *Runtime) Run(ctx context.Context, namespace, fullArguments string, opts Options) (*Context, error) {
	ec := &Context{
		FullArguments: fullArguments,
		Options:       opts,
		state:         StateCreated,
	}

	p, ok := r.FindPlugin(namespace)
	if !ok {
		return ec, nil
	}
	ec.Plugin = p
	ec.state = StatePluginResolved

	cmd, ok := r.FindCommand(p, fullArguments)
	if !ok {
		return ec, nil
	}
	ec.Command = cmd
	ec.state = StateCommandResolved

	ec.Arguments = ExtractSubArguments(fullArguments, cmd.Name)
	ec.StringArguments = strings.Join(ec.Arguments, " ")

	if r.exec == nil {
		return ec, ErrNoExecutor
	}
	if err := r.exec.Execute(ctx, ec); err != nil {
		return ec, err
	}
	ec.state = StateExecuted

	return ec, nil
}
