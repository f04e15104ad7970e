package javascript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/gitbump/pkg/deps"
	"github.com/matzehuels/gitbump/pkg/errors"
)

const (
	// ManifestFile is the npm manifest filename.
	ManifestFile = "package.json"

	// ModulesDir is the directory npm installs dependencies into.
	ModulesDir = "node_modules"
)

// Manifest is the subset of a project's package.json needed for resolution.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ReadManifest reads <basedir>/package.json.
func ReadManifest(basedir string) (*Manifest, error) {
	path := filepath.Join(basedir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// ParseManifest decodes package.json content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Lookup returns the declared spec for name, checking dependencies before
// devDependencies.
func (m *Manifest) Lookup(name string) (deps.Spec, error) {
	if raw, ok := m.Dependencies[name]; ok {
		return deps.Classify(name, raw), nil
	}
	if raw, ok := m.DevDependencies[name]; ok {
		s := deps.Classify(name, raw)
		s.Dev = true
		return s, nil
	}
	return deps.Spec{}, errors.New(errors.ErrCodeMissingDependency, "can't find dependency `%s`", name)
}

// Specs looks up every name, failing on the first one that is missing.
func (m *Manifest) Specs(names []string) ([]deps.Spec, error) {
	specs := make([]deps.Spec, 0, len(names))
	for _, name := range names {
		s, err := m.Lookup(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Names lists every declared dependency: dependencies first, then
// devDependencies not already listed, each group sorted.
func (m *Manifest) Names() []string {
	names := sortedKeys(m.Dependencies)
	for _, name := range sortedKeys(m.DevDependencies) {
		if _, dup := m.Dependencies[name]; !dup {
			names = append(names, name)
		}
	}
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Descriptor is the package.json of an installed dependency.
type Descriptor struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Repository any    `json:"repository"` // "url" or {"type": "git", "url": "..."}
}

// DescriptorPath returns <basedir>/node_modules/<name>/package.json.
func DescriptorPath(basedir, name string) string {
	return filepath.Join(basedir, ModulesDir, filepath.FromSlash(name), ManifestFile)
}

// ReadDescriptor reads the installed descriptor of dependency name.
func ReadDescriptor(basedir, name string) (*Descriptor, error) {
	path := DescriptorPath(basedir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "read %s", path)
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "parse %s", path)
	}
	return &d, nil
}

// RepositoryURL returns the declared repository URL, or "" if there is none.
func (d *Descriptor) RepositoryURL() string {
	return strings.TrimSpace(extractField(d.Repository, "url"))
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}
