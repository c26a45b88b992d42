// Package addons locates modules inside directory trees and reads their
// manifests.
//
// A directory is a module when its immediate entries, filtered down to the
// recognized manifest file names and the initializer marker, are exactly two
// and include the marker. Discovery walks a root depth-first, stops at
// modules and descends into everything else. Parsing turns the discovered
// paths into a types.ModuleSet keyed by directory name.
package addons
