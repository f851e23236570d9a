// Package dataset reads and writes credit datasets on disk.
//
// A dataset is up to three files: credits as [actorA, actorB, film] triples, and two
// name tables mapping actor names and film titles to ids. The encoding is chosen from
// the file extension: .json, .msgpack (.mp) or .yaml (.yml).
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions without a codec.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Format names an on-disk encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatYAML    Format = "yaml"
)

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var codecs = map[Format]codec{
	FormatJSON: {
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	},
	FormatMsgpack: {marshal: msgpack.Marshal, unmarshal: msgpack.Unmarshal},
	FormatYAML:    {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
}

// FormatFor infers the format of path from its extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

func codecFor(path string) (codec, error) {
	f, err := FormatFor(path)
	if err != nil {
		return codec{}, err
	}
	return codecs[f], nil
}
