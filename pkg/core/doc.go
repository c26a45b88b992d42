// Package core implements the addonlink pipelines on top of the locator,
// the manifest parser and the linker.
//
// # Link pipeline
//
// Link announces the three resolved paths, then:
//
//  1. discovers and parses the modules under the main path
//  2. aggregates their dependencies (deduplicated, sorted)
//  3. discovers and parses the modules under the external path
//  4. materializes the external set into the result path
//
// The aggregated dependencies are logged and returned but never used to
// order or filter the link step. Optionally (link.skip_main) external
// modules that share a name with a main module are left out.
//
// # Inspection
//
// ListModules and Dependencies run the first two steps against a single
// root and back the list and deps commands.
package core
