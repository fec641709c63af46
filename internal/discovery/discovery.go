// SPDX-License-Identifier: MPL-2.0

// Package discovery finds plugin directories under configured search paths
// and feeds them into a dispatch Runtime.
package discovery

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"plugrun/internal/dispatch"
	"plugrun/pkg/pluginfile"
)

// LoadWarning records a plugin directory that was discovered but failed to
// load. Discovery keeps going: one broken plugin never blocks the rest.
type LoadWarning struct {
	// Dir is the plugin directory that failed.
	Dir string
	// Err is the load failure, a *pluginfile.LoadError.
	Err error
}

// Scan returns candidate plugin directories found under each search path.
// Only immediate subdirectories are inspected (plugins are not nested); a
// subdirectory counts when it holds a plugin manifest. Missing or unreadable
// search paths are skipped.
func Scan(searchPaths []string) []string {
	var dirs []string

	for _, searchPath := range searchPaths {
		absPath, err := filepath.Abs(searchPath)
		if err != nil {
			continue
		}

		entries, err := os.ReadDir(absPath)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			entryPath := filepath.Join(absPath, entry.Name())
			if pluginfile.HasManifest(entryPath) {
				dirs = append(dirs, entryPath)
			}
		}
	}

	return dirs
}

// PopulateRuntime registers every plugin discovered under searchPaths with
// rt, in search-path order. Load failures are logged and collected as
// warnings; registration of each plugin stays atomic.
func PopulateRuntime(rt *dispatch.Runtime, searchPaths []string) []LoadWarning {
	var warnings []LoadWarning

	for _, dir := range Scan(searchPaths) {
		if _, err := rt.AddPluginFromDirectory(dir); err != nil {
			log.Warn("skipping plugin directory", "dir", dir, "err", err)
			warnings = append(warnings, LoadWarning{Dir: dir, Err: err})
		}
	}

	return warnings
}
