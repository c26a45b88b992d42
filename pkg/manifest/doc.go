// Package manifest decodes module manifest files into key/value mappings.
//
// Python-style manifests (__manifest__.py and friends) are read with a safe
// literal decoder that never evaluates code: it accepts the data subset of
// the language (dicts, lists, tuples, sets, strings, numbers, True, False,
// None) and, when enabled, '+' between literals for older manifests that
// build lists by concatenation. Manifests named with a .json, .yaml, .yml or
// .toml extension are decoded with the corresponding data format instead.
package manifest
