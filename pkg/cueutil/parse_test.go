// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:  string & !=""
	count: int & >=0 | *0
	tags?: [...string]
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	result, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "x", tags: ["a"]`), "#Doc",
		WithFilename("doc.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if result.Value.Name != "x" || result.Value.Count != 0 || len(result.Value.Tags) != 1 {
		t.Errorf("unexpected value: %+v", result.Value)
	}
}

func TestParseAndDecode_ValidationError(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: ""`), "#Doc",
		WithFilename("doc.cue"))
	if err == nil {
		t.Fatal("expected validation error for empty name")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error should match ErrValidation, got: %v", err)
	}
	if !strings.Contains(err.Error(), "doc.cue") {
		t.Errorf("error should mention the filename, got: %v", err)
	}
}

func TestParseAndDecode_SizeLimit(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "abcdef"`), "#Doc",
		WithMaxFileSize(4))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestParseAndDecode_UnknownDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "x"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Fatalf("expected missing definition error, got %v", err)
	}
}

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"name":  "from-toml",
		"count": int64(3),
		"tags":  []any{"a", "b"},
	}
	result, err := DecodeValue[testDoc]([]byte(testSchema), data, "#Doc", WithFilename("doc.toml"))
	if err != nil {
		t.Fatalf("DecodeValue() error = %v", err)
	}
	if result.Value.Name != "from-toml" || result.Value.Count != 3 || len(result.Value.Tags) != 2 {
		t.Errorf("unexpected value: %+v", result.Value)
	}
}

func TestDecodeValue_RejectsInvalid(t *testing.T) {
	t.Parallel()

	data := map[string]any{"name": "x", "count": int64(-1)}
	if _, err := DecodeValue[testDoc]([]byte(testSchema), data, "#Doc", WithFilename("doc.toml")); err == nil {
		t.Fatal("expected error for negative count")
	}
}
