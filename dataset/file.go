package dataset

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cleaner/errors"
)

// Format is a file encoding recognised by extension.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatTOML   Format = "toml"
	FormatSQLite Format = "sqlite"
)

// FormatOf maps a path's extension to its Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", errors.WithHint(
			errors.NewInvalidRequestError("unsupported dataset extension %q", filepath.Ext(path)),
			"use .yaml, .yml, .json, .toml, .db or .sqlite")
	}
}

// LoadFile decodes a YAML, JSON or TOML dataset and validates it.
func LoadFile(path string) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatSQLite {
		return nil, errors.NewInvalidRequestError("%s is a database; use Open", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}

	ds, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %s", path)
	}
	return ds, nil
}

// Decode parses data in format and validates the result.
func Decode(data []byte, format Format) (*Dataset, error) {
	var ds Dataset
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &ds)
	case FormatJSON:
		err = json.Unmarshal(data, &ds)
	case FormatTOML:
		_, err = toml.Decode(string(data), &ds)
	default:
		return nil, errors.NewInvalidRequestError("cannot decode format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", format)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Encode renders ds in a file format.
func Encode(ds *Dataset, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(ds); err != nil {
			return nil, errors.Wrap(err, "encode yaml")
		}
		enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds); err != nil {
			return nil, errors.Wrap(err, "encode json")
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(ds); err != nil {
			return nil, errors.Wrap(err, "encode toml")
		}
	default:
		return nil, errors.NewInvalidRequestError("cannot encode format %q", format)
	}
	return buf.Bytes(), nil
}
