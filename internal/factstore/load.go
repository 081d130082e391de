package factstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/factlens/internal/model"
)

// Format identifies a dataset encoding
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatFromPath picks the encoding from the file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// Load reads the dataset at path and builds a validated Store.
// Every failure, including unreadable or malformed files, is a
// *DataIntegrityError.
func Load(path string, opts ...Option) (*Store, error) {
	ds, err := ReadDataset(context.Background(), path)
	if err != nil {
		return nil, err
	}
	return New(ds, append([]Option{withPath(path)}, opts...)...)
}

// ReadDataset decodes the dataset at path without validating it
func ReadDataset(ctx context.Context, path string) (model.Dataset, error) {
	if FormatFromPath(path) == FormatSQLite {
		ds, err := readSQLite(ctx, path)
		if err != nil {
			return model.Dataset{}, &DataIntegrityError{Path: path, Err: err}
		}
		return ds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Dataset{}, &DataIntegrityError{Path: path, Err: fmt.Errorf("read dataset: %w", err)}
	}

	ds, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return model.Dataset{}, &DataIntegrityError{Path: path, Err: err}
	}
	return ds, nil
}

// Decode parses a JSON or YAML dataset
func Decode(data []byte, format Format) (model.Dataset, error) {
	var ds model.Dataset

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return model.Dataset{}, fmt.Errorf("decode yaml dataset: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&ds); err != nil {
			return model.Dataset{}, fmt.Errorf("decode json dataset: %w", err)
		}
	default:
		return model.Dataset{}, fmt.Errorf("unsupported dataset format: %s", format)
	}

	if len(ds.Entities) == 0 && len(ds.Facts) == 0 && len(ds.Sources) == 0 {
		return model.Dataset{}, fmt.Errorf("dataset is empty")
	}
	return ds, nil
}
