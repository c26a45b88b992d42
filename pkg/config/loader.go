package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. ADDONLINK_MANIFEST_ALLOW_EXPRESSIONS=true.
const EnvPrefix = "ADDONLINK_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// DefaultConfigPath returns the user config location under XDG_CONFIG_HOME
func DefaultConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

// Load builds the configuration: embedded defaults, then the config file,
// then environment variables. An explicit path must exist; with an empty
// path the default location is used when present.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot access config file").
				WithDetail("path", path)
		}
		logger.Trace().Str("path", path).Msg("No config file, using defaults")
		path = ""
	}

	return load(path, envOverrides)
}

// Overrides returns a copy of cfg with the given flat keys applied, e.g.
// {"link.skip_main": true}. The CLI uses it to layer flags last.
func Overrides(cfg *Config, values map[string]interface{}) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(toMap(cfg), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load base config")
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
	}
	return unmarshal(k)
}

func load(path string, environ func(*koanf.Koanf) error) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config file
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load config file").
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if environ != nil {
		if err := environ(k); err != nil {
			return nil, err
		}
	}

	return unmarshal(k)
}

func envOverrides(k *koanf.Koanf) error {
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}
	return nil
}

// envKey maps ADDONLINK_SECTION_SOME_KEY to section.some_key
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if err := cfg.Layout().Validate(); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "invalid [modules] section")
	}
	if cfg.Link.DirMode == 0 {
		cfg.Link.DirMode = 0755
	}
	return nil
}

// toMap converts a Config struct to a map for koanf merging
func toMap(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"modules": map[string]interface{}{
			"manifest_files": cfg.Modules.ManifestFiles,
			"init_file":      cfg.Modules.InitFile,
		},
		"manifest": map[string]interface{}{
			"allow_expressions": cfg.Manifest.AllowExpressions,
		},
		"discovery": map[string]interface{}{
			"detect_cycles": cfg.Discovery.DetectCycles,
		},
		"link": map[string]interface{}{
			"skip_main": cfg.Link.SkipMain,
			"dir_mode":  uint32(cfg.Link.DirMode),
		},
	}
}
