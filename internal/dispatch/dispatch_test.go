// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"path/filepath"
	"testing"

	"plugrun/internal/testutil/pluginfiletest"
	"plugrun/pkg/pluginfile"
)

func TestFindPlugin(t *testing.T) {
	rt := New(nil)
	app := pluginfiletest.NewTestPlugin("app", "generate")
	db := pluginfiletest.NewTestPlugin("db", "migrate")
	rt.AddPlugin(app)
	rt.AddPlugin(db)

	tests := []struct {
		name      string
		namespace string
		want      *pluginfile.Plugin
		wantOK    bool
	}{
		{"first plugin", "app", app, true},
		{"second plugin", "db", db, true},
		{"unknown namespace", "nope", nil, false},
		{"empty namespace", "", nil, false},
		{"case-sensitive", "App", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rt.FindPlugin(tt.namespace)
			if ok != tt.wantOK {
				t.Fatalf("FindPlugin(%q) ok = %v, want %v", tt.namespace, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FindPlugin(%q) = %v, want %v", tt.namespace, got, tt.want)
			}
		})
	}
}

func TestFindPlugin_FirstMatchWins(t *testing.T) {
	rt := New(nil)
	first := pluginfiletest.NewTestPlugin("app", "one")
	second := pluginfiletest.NewTestPlugin("app", "two")
	rt.AddPlugin(first)
	rt.AddPlugin(second)

	got, ok := rt.FindPlugin("app")
	if !ok {
		t.Fatal("FindPlugin(app) not found")
	}
	if got != first {
		t.Error("FindPlugin(app) did not return the first registered plugin")
	}
}

func TestFindPlugin_EmptyRegistry(t *testing.T) {
	rt := New(nil)
	if _, ok := rt.FindPlugin("app"); ok {
		t.Error("FindPlugin on empty registry reported a match")
	}
}

func TestFindCommand(t *testing.T) {
	p := pluginfiletest.NewTestPlugin("app", "generate", "g", "build")

	rt := New(nil)
	tests := []struct {
		name          string
		plugin        *pluginfile.Plugin
		fullArguments string
		wantName      string
		wantOK        bool
	}{
		{"exact name", p, "build", "build", true},
		{"name plus arguments", p, "generate Model", "generate", true},
		{"declaration order wins over shorter prefix", p, "generate foo", "generate", true},
		{"prefix is not token-boundary aware", p, "gx whatever", "g", true},
		{"leading whitespace trimmed before matching", p, "   build --all", "build", true},
		{"no match", p, "deploy", "", false},
		{"nil plugin", nil, "build", "", false},
		{"blank arguments", p, "   ", "", false},
		{"empty arguments", p, "", "", false},
		{"case-sensitive", p, "Build", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rt.FindCommand(tt.plugin, tt.fullArguments)
			if ok != tt.wantOK {
				t.Fatalf("FindCommand(%q) ok = %v, want %v", tt.fullArguments, ok, tt.wantOK)
			}
			if ok && got.Name != tt.wantName {
				t.Errorf("FindCommand(%q) = %q, want %q", tt.fullArguments, got.Name, tt.wantName)
			}
		})
	}
}

func TestFindCommand_EmptyCommandList(t *testing.T) {
	rt := New(nil)
	p := &pluginfile.Plugin{Namespace: "empty"}
	if _, ok := rt.FindCommand(p, "anything"); ok {
		t.Error("FindCommand on plugin without commands reported a match")
	}
}

func TestFindCommand_ShorterPrefixShadowsWhenDeclaredFirst(t *testing.T) {
	// Declaring "g" before "generate" makes "generate" unreachable.
	p := pluginfiletest.NewTestPlugin("app", "g", "generate")

	rt := New(nil)
	got, ok := rt.FindCommand(p, "generate foo")
	if !ok {
		t.Fatal("FindCommand(generate foo) not found")
	}
	if got.Name != "g" {
		t.Errorf("FindCommand(generate foo) = %q, want %q", got.Name, "g")
	}
}

func TestListCommands(t *testing.T) {
	rt := New(nil)

	if got := rt.ListCommands(); len(got) != 0 {
		t.Fatalf("ListCommands() on empty registry = %v, want empty", got)
	}

	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "generate", "build"))
	rt.AddPlugin(pluginfiletest.NewTestPlugin("db", "migrate"))

	got := rt.ListCommands()
	want := []CommandListing{
		{Plugin: "app", Command: "generate", Description: "the generate command"},
		{Plugin: "app", Command: "build", Description: "the build command"},
		{Plugin: "db", Command: "migrate", Description: "the migrate command"},
	}

	if len(got) != len(want) {
		t.Fatalf("ListCommands() returned %d listings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListCommands()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAddPluginFromDirectory(t *testing.T) {
	dir := pluginfiletest.WriteManifestDir(t, t.TempDir(), "app-plugin",
		pluginfile.ManifestNameCUE, pluginfiletest.CUEManifest("app", "generate"))

	rt := New(nil)
	p, err := rt.AddPluginFromDirectory(dir)
	if err != nil {
		t.Fatalf("AddPluginFromDirectory() error = %v", err)
	}
	if p.Namespace != "app" {
		t.Errorf("Namespace = %q, want %q", p.Namespace, "app")
	}
	if got, ok := rt.FindPlugin("app"); !ok || got != p {
		t.Error("loaded plugin was not registered")
	}
}

func TestAddPluginFromDirectory_FailureDoesNotRegister(t *testing.T) {
	rt := New(nil)

	_, err := rt.AddPluginFromDirectory(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("AddPluginFromDirectory() on missing dir succeeded")
	}

	var loadErr *pluginfile.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error type = %T, want *pluginfile.LoadError", err)
	}
	if got := rt.Plugins(); len(got) != 0 {
		t.Errorf("registry has %d plugins after failed load, want 0", len(got))
	}
}

func TestCheckNamespaceCollisions(t *testing.T) {
	rt := New(nil)
	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "one"))
	rt.AddPlugin(pluginfiletest.NewTestPlugin("db", "two"))

	if err := rt.CheckNamespaceCollisions(); err != nil {
		t.Fatalf("CheckNamespaceCollisions() with distinct namespaces = %v", err)
	}

	rt.AddPlugin(pluginfiletest.NewTestPlugin("app", "three"))
	err := rt.CheckNamespaceCollisions()
	if err == nil {
		t.Fatal("CheckNamespaceCollisions() missed a duplicate namespace")
	}

	var collision *NamespaceCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("error type = %T, want *NamespaceCollisionError", err)
	}
	if collision.Namespace != "app" {
		t.Errorf("Namespace = %q, want %q", collision.Namespace, "app")
	}
}
