// Package config handles configuration management for addonlink.
// Settings are layered from embedded defaults, an optional TOML file and
// ADDONLINK_-prefixed environment variables; command-line flags are applied
// on top by the CLI.
package config
