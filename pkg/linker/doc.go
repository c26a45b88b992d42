// Package linker materializes a module set as a directory of symlinks.
//
// Every module gets a link named after it in the destination directory,
// pointing at the module's absolute path. Names that already exist in the
// destination, whatever they are, are left alone. The directory and link
// creation steps run as a synthfs pipeline without rollback: links created
// before a failure stay in place.
//
// The exists check and the link creation are two separate calls, so two
// concurrent runs against one destination can race. addonlink does not
// guard against that.
package linker
