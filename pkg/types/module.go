package types

import (
	"path/filepath"
	"sort"
)

// Module represents a directory recognized as an addon: it directly holds
// one manifest file and the initializer marker.
type Module struct {
	// Name is the module name (the directory basename)
	Name string `json:"name" yaml:"name"`

	// Path is the absolute path to the module directory
	Path string `json:"path" yaml:"path"`

	// ManifestPath is the full path of the manifest file that qualified it
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`

	// Manifest is the decoded manifest mapping
	Manifest map[string]interface{} `json:"manifest,omitempty" yaml:"manifest,omitempty"`

	// Depends lists the declared dependencies, empty when none are declared
	Depends []string `json:"depends" yaml:"depends"`
}

// GetFilePath returns the full path to a file within the module
func (m *Module) GetFilePath(filename string) string {
	return filepath.Join(m.Path, filename)
}

// ModuleSet maps module names to modules, as produced by one traversal of
// one root directory.
type ModuleSet map[string]*Module

// Names returns the module names in sorted order
func (s ModuleSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the modules ordered by name
func (s ModuleSet) Sorted() []*Module {
	modules := make([]*Module, 0, len(s))
	for _, name := range s.Names() {
		modules = append(modules, s[name])
	}
	return modules
}

// Has reports whether a module with the given name is in the set
func (s ModuleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Without returns a new set holding the modules of s whose names are not
// present in other.
func (s ModuleSet) Without(other ModuleSet) ModuleSet {
	result := make(ModuleSet, len(s))
	for name, module := range s {
		if other.Has(name) {
			continue
		}
		result[name] = module
	}
	return result
}
