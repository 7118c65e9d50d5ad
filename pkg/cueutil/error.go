// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrValidation is returned when a document does not satisfy its schema.
	ErrValidation = errors.New("schema validation failed")

	// ErrFileTooLarge is returned when a document exceeds the size limit.
	ErrFileTooLarge = errors.New("document too large")
)

type (
	// Problem is a single schema violation located by its document path.
	Problem struct {
		// Path is the JSON-path style location, e.g. mods[0].versions."1.20".source.
		Path    string
		Message string
	}

	// ValidationError lists every problem CUE reported for one document.
	ValidationError struct {
		File     string
		Problems []Problem
	}

	// FileTooLargeError reports a document above the configured size limit.
	FileTooLargeError struct {
		File string
		Size int64
		Max  int64
	}
)

// Error implements the error interface.
//
//	mods.toml: mods[3].versions."1.20".printer_version: 5 errors in empty disjunction
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.String())
	}
	if len(lines) == 1 {
		return e.File + ": " + lines[0]
	}
	return fmt.Sprintf("%s: %d problems:\n  %s", e.File, len(lines), strings.Join(lines, "\n  "))
}

// Unwrap returns ErrValidation for errors.Is detection.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// String renders the problem as "<path>: <message>".
func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Max)
}

// Unwrap returns ErrFileTooLarge for errors.Is detection.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts a CUE error into a *ValidationError for file. Errors
// that do not originate from CUE are wrapped with the file name only.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes plain errors to a one-element list, so the
	// chain is checked first to keep the original cause reachable.
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", file, err)
	}

	list := cueerrors.Errors(err)
	verr := &ValidationError{File: file}
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path at the start of the message.
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		verr.Problems = append(verr.Problems, Problem{Path: path, Message: msg})
	}
	return verr
}

// formatPath converts a CUE path (["mods", "0", "versions", "1.20"]) to
// "mods[0].versions.\"1.20\"". Labels containing dots are quoted so version
// keys stay readable.
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			if strings.Contains(part, ".") {
				part = `"` + part + `"`
			}
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(label string) bool {
	if label == "" {
		return false
	}
	for _, c := range label {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns a *FileTooLargeError when data exceeds maxSize.
func CheckFileSize(data []byte, maxSize int64, file string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{File: file, Size: size, Max: maxSize}
	}
	return nil
}
