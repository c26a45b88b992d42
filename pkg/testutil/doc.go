// Package testutil provides utilities for testing addonlink components.
//
// Key components:
//   - MemoryFS: in-memory types.FS with real symlink semantics, for fast,
//     isolated locator and linker tests
//   - AddonTree: declarative builder for module trees on disk or in a MemoryFS
//   - temp-dir helpers and symlink assertions for tests on the real filesystem
//
// All test data should be defined inline, not in external files.
package testutil
