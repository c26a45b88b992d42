// Package types defines the core types and interfaces used throughout
// addonlink: the FS abstraction every component performs I/O through, the
// Module and ModuleSet produced by discovery and parsing, and the LinkResult
// reported by the link step.
package types
