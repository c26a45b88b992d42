package manifest

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/addonlink/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DependsKey is the manifest key listing module dependencies
const DependsKey = "depends"

// Format identifies a manifest syntax
type Format string

const (
	FormatLiteral Format = "literal"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
)

// FormatFor picks the syntax for a manifest file from its extension.
// Anything that is not recognized is treated as a Python literal.
func FormatFor(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatLiteral
}

// Options controls manifest decoding
type Options struct {
	// AllowExpressions enables '+' between literals in Python manifests
	AllowExpressions bool
}

// Decoder turns manifest file contents into mappings
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder with the given options
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode parses data read from filename. The top-level value must be a
// mapping. Syntax problems are reported as MANIFEST_PARSE errors carrying
// the file and, for literal manifests, the line and column.
func (d *Decoder) Decode(filename string, data []byte) (map[string]interface{}, error) {
	var (
		value interface{}
		err   error
	)

	switch FormatFor(filename) {
	case FormatYAML:
		value, err = decodeYAML(data)
	case FormatTOML:
		value, err = decodeTOML(data)
	default:
		value, err = ParseLiteral(data, d.opts.AllowExpressions)
	}

	if err != nil {
		wrapped := errors.Wrap(err, errors.ErrManifestParse, "cannot decode manifest").
			WithDetail("file", filename)
		var syntaxErr *SyntaxError
		if stderrors.As(err, &syntaxErr) {
			wrapped.WithDetail("line", syntaxErr.Line).WithDetail("column", syntaxErr.Col)
		}
		return nil, wrapped
	}

	mapping, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrManifestInvalid,
			"manifest must be a mapping, found %s", typeName(value)).
			WithDetail("file", filename)
	}
	return mapping, nil
}

func decodeYAML(data []byte) (interface{}, error) {
	var value interface{}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return normalize(value), nil
}

func decodeTOML(data []byte) (interface{}, error) {
	var value map[string]interface{}
	if err := toml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return normalize(value), nil
}

// normalize converts decoder specific shapes into the literal decoder's:
// string-keyed maps, []interface{} sequences and int64 integers.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	case int:
		return int64(t)
	}
	return v
}

// Depends extracts the dependency list from a decoded manifest. A missing
// key or a None value yields an empty list.
//
// A value of the wrong shape is not fatal: the string entries that can be
// used are returned together with a MANIFEST_INVALID error describing what
// was dropped, and callers decide whether to report it.
func Depends(manifest map[string]interface{}) ([]string, error) {
	raw, ok := manifest[DependsKey]
	if !ok || raw == nil {
		return []string{}, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return []string{}, errors.Newf(errors.ErrManifestInvalid,
			"%q must be a list of module names, found %s", DependsKey, typeName(raw))
	}

	depends := make([]string, 0, len(items))
	var dropped []int
	for i, item := range items {
		name, ok := item.(string)
		if !ok {
			dropped = append(dropped, i)
			continue
		}
		depends = append(depends, name)
	}
	if len(dropped) > 0 {
		return depends, errors.Newf(errors.ErrManifestInvalid,
			"%q entry %d must be a string, found %s", DependsKey, dropped[0], typeName(items[dropped[0]])).
			WithDetail("index", dropped[0]).
			WithDetail("dropped", len(dropped))
	}
	return depends, nil
}
