// SPDX-License-Identifier: MPL-2.0

// Package pluginfiletest provides test helpers for building pluginfile
// fixtures: in-memory plugins for registry tests and on-disk manifest
// directories for loader and discovery tests.
package pluginfiletest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"plugrun/pkg/pluginfile"
)

// NewTestPlugin creates a plugin with one command per name. Every command
// gets a description derived from its name and a script that succeeds.
func NewTestPlugin(namespace string, commandNames ...string) *pluginfile.Plugin {
	p := &pluginfile.Plugin{Namespace: namespace}
	for _, name := range commandNames {
		p.Commands = append(p.Commands, pluginfile.Command{
			Name:        name,
			Description: "the " + name + " command",
			Script:      "true",
		})
	}
	return p
}

// CUEManifest returns a minimal valid CUE manifest declaring one command.
func CUEManifest(namespace, command string) string {
	return fmt.Sprintf(`
namespace: %q
commands: [
	{
		name:   %q
		script: "echo running"
	},
]
`, namespace, command)
}

// TOMLManifest returns a minimal valid TOML manifest declaring one command.
func TOMLManifest(namespace, command string) string {
	return fmt.Sprintf(`
namespace = %q

[[commands]]
name = %q
script = "echo running"
`, namespace, command)
}

// WriteManifestDir creates a plugin directory named name under parent and
// writes manifest into it as manifestName. It returns the directory path.
func WriteManifestDir(t testing.TB, parent, name, manifestName, manifest string) string {
	t.Helper()

	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create plugin directory %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest in %s: %v", dir, err)
	}
	return dir
}
