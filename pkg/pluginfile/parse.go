// SPDX-License-Identifier: MPL-2.0

package pluginfile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"plugrun/pkg/cueutil"
)

//go:embed pluginfile_schema.cue
var pluginSchema string

const (
	// ManifestNameCUE is the preferred manifest filename.
	ManifestNameCUE = "plugin.cue"
	// ManifestNameTOML is the alternative manifest filename.
	ManifestNameTOML = "plugin.toml"
)

// ParseBytes parses a CUE manifest, validating it against the embedded
// schema. filename only appears in error messages.
func ParseBytes(data []byte, filename string) (*Plugin, error) {
	p, err := cueutil.Decode[Plugin](pluginSchema, data, "#Plugin", filename)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseTOMLBytes parses a TOML manifest.
func ParseTOMLBytes(data []byte, filename string) (*Plugin, error) {
	var p Plugin
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// HasManifest reports whether dir contains a plugin manifest.
func HasManifest(dir string) bool {
	return manifestPath(dir) != ""
}

// manifestPath returns the path of the manifest inside dir, preferring
// plugin.cue over plugin.toml. Empty when neither exists.
func manifestPath(dir string) string {
	for _, name := range []string{ManifestNameCUE, ManifestNameTOML} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFromDirectory loads and validates the plugin manifest found in dir.
// Any failure (missing directory, missing manifest, syntax error, schema
// violation) is reported as a *LoadError and no partially-loaded plugin is
// ever returned.
func LoadFromDirectory(dir string) (*Plugin, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Cause: err}
	}

	if _, err := os.Stat(absDir); err != nil {
		return nil, &LoadError{Dir: absDir, Cause: err}
	}

	path := manifestPath(absDir)
	if path == "" {
		return nil, &LoadError{
			Dir:   absDir,
			Cause: fmt.Errorf("no %s or %s manifest found", ManifestNameCUE, ManifestNameTOML),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Dir: absDir, Cause: err}
	}

	var p *Plugin
	if filepath.Base(path) == ManifestNameTOML {
		p, err = ParseTOMLBytes(data, path)
	} else {
		p, err = ParseBytes(data, path)
	}
	if err != nil {
		return nil, &LoadError{Dir: absDir, Cause: err}
	}

	p.Dir = absDir
	return p, nil
}
