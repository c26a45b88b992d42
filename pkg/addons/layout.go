package addons

import (
	"path/filepath"

	"github.com/arthur-debert/addonlink/pkg/errors"
)

// Default file names of the module layout
const (
	ManifestFile       = "__manifest__.py"
	OdooManifestFile   = "__odoo__.py"
	OpenerpManifestFile = "__openerp__.py"
	TerpManifestFile   = "__terp__.py"
	InitFile           = "__init__.py"
)

// Layout names the files that make a directory a module
type Layout struct {
	// ManifestFiles are the recognized manifest file names
	ManifestFiles []string
	// InitFile is the initializer marker file name
	InitFile string
}

// DefaultLayout returns the layout used when nothing is configured
func DefaultLayout() Layout {
	return Layout{
		ManifestFiles: []string{ManifestFile, OdooManifestFile, OpenerpManifestFile, TerpManifestFile},
		InitFile:      InitFile,
	}
}

// IsManifest reports whether name is one of the recognized manifest names
func (l Layout) IsManifest(name string) bool {
	for _, m := range l.ManifestFiles {
		if m == name {
			return true
		}
	}
	return false
}

// Recognized reports whether name takes part in module classification
func (l Layout) Recognized(name string) bool {
	return name == l.InitFile || l.IsManifest(name)
}

// Validate checks that the layout can classify anything at all
func (l Layout) Validate() error {
	if len(l.ManifestFiles) == 0 {
		return errors.New(errors.ErrInvalidInput, "layout needs at least one manifest file name")
	}
	if l.InitFile == "" {
		return errors.New(errors.ErrInvalidInput, "layout needs an initializer file name")
	}
	for _, name := range append([]string{l.InitFile}, l.ManifestFiles...) {
		if name != filepath.Base(name) || name == "." || name == ".." {
			return errors.Newf(errors.ErrInvalidInput, "layout file name %q must be a plain file name", name)
		}
	}
	if l.IsManifest(l.InitFile) {
		return errors.Newf(errors.ErrInvalidInput, "%q cannot be both a manifest and the initializer", l.InitFile)
	}
	return nil
}
