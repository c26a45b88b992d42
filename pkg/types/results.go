package types

// ModuleList is the listing of the modules found under one root
type ModuleList struct {
	Root    string    `json:"root" yaml:"root"`
	Modules []*Module `json:"modules" yaml:"modules"`
}

// List returns the set as a listing ordered by module name
func (s ModuleSet) List(root string) *ModuleList {
	return &ModuleList{Root: root, Modules: s.Sorted()}
}

// DependencyReport is the aggregate dependency view of one root
type DependencyReport struct {
	Root string `json:"root" yaml:"root"`
	// Depends is the deduplicated, sorted union of every module's depends
	Depends []string `json:"depends" yaml:"depends"`
	// External lists the entries of Depends that no module under Root provides
	External []string `json:"external" yaml:"external"`
}

// LinkReport describes a finished link run
type LinkReport struct {
	MainPath   string `json:"main_path" yaml:"main_path"`
	ExtPath    string `json:"ext_path" yaml:"ext_path"`
	ResultPath string `json:"result_path" yaml:"result_path"`
	DryRun     bool   `json:"dry_run" yaml:"dry_run"`

	Main ModuleSet `json:"-" yaml:"-"`
	Ext  ModuleSet `json:"-" yaml:"-"`

	// MainDepends is the aggregated dependency list of the main modules
	MainDepends []string     `json:"main_depends" yaml:"main_depends"`
	Results     []LinkResult `json:"results" yaml:"results"`
}
