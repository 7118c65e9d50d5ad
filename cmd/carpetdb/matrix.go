// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/RubixDev/carpet-database/internal/modspec"
)

// matrixKey is the output name CI workflows read the mod matrix from.
const matrixKey = "mod-list"

var errNoGitHubOutput = errors.New("GITHUB_OUTPUT is not set")

type (
	matrixEntry struct {
		Slug string `json:"slug"`
	}

	// matrix is a GitHub Actions strategy matrix with one job per mod.
	matrix struct {
		Include []matrixEntry `json:"include"`
	}
)

func buildMatrix(mods []modspec.Mod) matrix {
	m := matrix{Include: make([]matrixEntry, 0, len(mods))}
	for i := range mods {
		m.Include = append(m.Include, matrixEntry{Slug: mods[i].Slug})
	}
	return m
}

// appendMatrix appends "mod-list=<json>" as one line to the CI output file.
func appendMatrix(path string, mods []modspec.Mod) error {
	if path == "" {
		return errNoGitHubOutput
	}
	data, err := json.Marshal(buildMatrix(mods))
	if err != nil {
		return fmt.Errorf("encode matrix: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := fmt.Fprintf(f, "%s=%s\n", matrixKey, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
