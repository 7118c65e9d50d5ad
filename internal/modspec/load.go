// SPDX-License-Identifier: MPL-2.0

package modspec

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RubixDev/carpet-database/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
)

//go:embed schema.cue
var schema []byte

const schemaRoot = "#Document"

// Load reads and validates the mods document at path. Files ending in .cue
// are parsed as CUE; everything else is parsed as TOML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mods document: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return ParseCUE(data, filepath.Base(path))
	}
	return ParseTOML(data, filepath.Base(path))
}

// ParseTOML decodes a TOML document and validates it against the schema.
func ParseTOML(data []byte, filename string) (*Document, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, filename, err)
	}

	result, err := cueutil.DecodeValue[Document](schema, raw, schemaRoot, cueutil.WithFilename(filename))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return finish(result.Value)
}

// ParseCUE parses a CUE document and validates it against the schema.
func ParseCUE(data []byte, filename string) (*Document, error) {
	result, err := cueutil.ParseAndDecode[Document](schema, data, schemaRoot, cueutil.WithFilename(filename))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return finish(result.Value)
}

func finish(doc *Document) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
