package config

import (
	"io/fs"

	"github.com/arthur-debert/addonlink/pkg/addons"
)

// Config is the fully merged addonlink configuration
type Config struct {
	Modules   Modules   `koanf:"modules"`
	Manifest  Manifest  `koanf:"manifest"`
	Discovery Discovery `koanf:"discovery"`
	Link      Link      `koanf:"link"`
}

// Modules configures what qualifies a directory as a module
type Modules struct {
	ManifestFiles []string `koanf:"manifest_files"`
	InitFile      string   `koanf:"init_file"`
}

// Manifest configures manifest decoding
type Manifest struct {
	AllowExpressions bool `koanf:"allow_expressions"`
}

// Discovery configures the module locator
type Discovery struct {
	DetectCycles bool `koanf:"detect_cycles"`
}

// Link configures the link step
type Link struct {
	SkipMain bool        `koanf:"skip_main"`
	DirMode  fs.FileMode `koanf:"dir_mode"`
}

// Layout returns the module layout described by the configuration
func (c *Config) Layout() addons.Layout {
	return addons.Layout{
		ManifestFiles: c.Modules.ManifestFiles,
		InitFile:      c.Modules.InitFile,
	}
}

// Default returns the configuration built from the embedded defaults only.
// It panics if the embedded defaults are broken, which is a build defect.
func Default() *Config {
	cfg, err := load("", nil)
	if err != nil {
		panic(err)
	}
	return cfg
}
