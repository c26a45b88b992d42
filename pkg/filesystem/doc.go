// Package filesystem provides the implementations of types.FS used at
// runtime: the plain OS filesystem and an afero-backed one, which the CLI
// uses read-only for dry runs.
//
// Tests use the in-memory implementation in pkg/testutil instead.
package filesystem
