package plugin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest declares which plugins a deployment activates and where
// template files are discovered. It replaces runtime package scanning:
// only manifested plugins are bootstrapped, in manifest order, which keeps
// registration order deterministic within a single discovery pass.
type Manifest struct {
	// Plugins lists plugin identifiers in activation order. Names starting
	// with an underscore are reserved and skipped.
	Plugins []string `yaml:"plugins"`
	// TemplateRoots lists directory trees scanned for "templates"
	// directories. Defaults to the current directory when empty.
	TemplateRoots []string `yaml:"template_roots"`
	// SkipInstall disables the installation phase, e.g. for tests or
	// read-only environments.
	SkipInstall bool `yaml:"skip_install"`
}

// LoadManifest reads a YAML manifest from path. Unlike bootstrap-phase
// failures, a bad manifest is a configuration error and propagates.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	m.applyDefaults()
	return m, nil
}

func (m *Manifest) applyDefaults() {
	if len(m.TemplateRoots) == 0 {
		m.TemplateRoots = []string{"."}
	}
}
