// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"testing"

	"plugrun/internal/testutil/pluginfiletest"
)

// recordingExecutor counts invocations and optionally fails.
type recordingExecutor struct {
	calls int
	last  *Context
	err   error
}

func (e *recordingExecutor) Execute(_ context.Context, ec *Context) error {
	e.calls++
	e.last = ec
	return e.err
}

func TestRun_UnknownNamespace(t *testing.T) {
	exec := &recordingExecutor{}
	rt := New(exec)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	ec, err := rt.Run(context.Background(), "unknown-ns", "anything", Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ec == nil {
		t.Fatal("Run() returned nil context")
	}

	if ec.State() != StateCreated {
		t.Errorf("State() = %v, want %v", ec.State(), StateCreated)
	}
	if ec.Plugin != nil || ec.Command != nil || ec.Arguments != nil {
		t.Error("unresolved context has populated resolution fields")
	}
	if ec.FullArguments != "anything" {
		t.Errorf("FullArguments = %q, want %q", ec.FullArguments, "anything")
	}
	if exec.calls != 0 {
		t.Errorf("executor invoked %d times, want 0", exec.calls)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	exec := &recordingExecutor{}
	rt := New(exec)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	ec, err := rt.Run(context.Background(), "app", "deploy prod", Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if ec.State() != StatePluginResolved {
		t.Errorf("State() = %v, want %v", ec.State(), StatePluginResolved)
	}
	if ec.Plugin == nil {
		t.Error("Plugin not set after namespace resolution")
	}
	if ec.Command != nil || ec.Arguments != nil {
		t.Error("command stage fields populated without a command match")
	}
	if exec.calls != 0 {
		t.Errorf("executor invoked %d times, want 0", exec.calls)
	}
}

func TestRun_BlankArguments(t *testing.T) {
	exec := &recordingExecutor{}
	rt := New(exec)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	ec, err := rt.Run(context.Background(), "app", "", Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ec.State() != StatePluginResolved {
		t.Errorf("State() = %v, want %v", ec.State(), StatePluginResolved)
	}
}

func TestRun_FullDispatch(t *testing.T) {
	exec := &recordingExecutor{}
	rt := New(exec)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	ec, err := rt.Run(context.Background(), "app", "generate Model", Options{Verbose: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if ec.State() != StateExecuted {
		t.Errorf("State() = %v, want %v", ec.State(), StateExecuted)
	}
	if ec.Plugin == nil || ec.Plugin.Namespace != "app" {
		t.Error("Plugin not resolved")
	}
	if ec.Command == nil || ec.Command.Name != "generate" {
		t.Error("Command not resolved")
	}
	if len(ec.Arguments) != 1 || ec.Arguments[0] != "Model" {
		t.Errorf("Arguments = %#v, want [Model]", ec.Arguments)
	}
	if ec.StringArguments != "Model" {
		t.Errorf("StringArguments = %q, want %q", ec.StringArguments, "Model")
	}
	if !ec.Options.Verbose {
		t.Error("Options not passed through")
	}
	if exec.calls != 1 {
		t.Errorf("executor invoked %d times, want 1", exec.calls)
	}
	if exec.last != ec {
		t.Error("executor saw a different context than the caller")
	}
}

func TestRun_ExecutorFailurePropagates(t *testing.T) {
	execErr := errors.New("boom")
	exec := &recordingExecutor{err: execErr}
	rt := New(exec)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	ec, err := rt.Run(context.Background(), "app", "generate Model", Options{})
	if !errors.Is(err, execErr) {
		t.Fatalf("Run() error = %v, want %v", err, execErr)
	}
	if ec == nil {
		t.Fatal("Run() returned nil context alongside the error")
	}
	if ec.State() != StateCommandResolved {
		t.Errorf("State() = %v, want %v", ec.State(), StateCommandResolved)
	}
}

func TestRun_NoExecutor(t *testing.T) {
	rt := New(nil)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	_, err := rt.Run(context.Background(), "app", "generate", Options{})
	if !errors.Is(err, ErrNoExecutor) {
		t.Errorf("Run() error = %v, want ErrNoExecutor", err)
	}
}

func TestRun_FreshContextPerCall(t *testing.T) {
	exec := &recordingExecutor{}
	rt := New(exec)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate"))

	first, err := rt.Run(context.Background(), "app", "generate a", Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := rt.Run(context.Background(), "app", "generate b", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("Run() reused a context across calls")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StatePluginResolved, "plugin resolved"},
		{StateCommandResolved, "command resolved"},
		{StateExecuted, "executed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
