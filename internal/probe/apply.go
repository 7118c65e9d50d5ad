// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// MixinsManifest registers the injection points of the staged project.
	MixinsManifest = "src/main/resources/data-extractor.mixins.json"
	// ModManifest declares the entrypoints of the staged project.
	ModManifest = "src/main/resources/fabric.mod.json"
)

// Apply writes the probe sources into the project at dir and patches its
// manifests to register exactly the generated injection points and
// entrypoints. Declared dependencies of the skeleton are cleared.
func Apply(dir string, p *Probe) error {
	for rel, content := range p.Files {
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(rel), err)
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}

	mixins := p.Mixins
	if mixins == nil {
		mixins = []string{}
	}
	if err := patchJSON(filepath.Join(dir, filepath.FromSlash(MixinsManifest)), func(doc map[string]any) {
		doc["package"] = "mixin"
		doc["mixins"] = mixins
	}); err != nil {
		return err
	}

	return patchJSON(filepath.Join(dir, filepath.FromSlash(ModManifest)), func(doc map[string]any) {
		doc["entrypoints"] = map[string]any{"main": p.Entrypoints}
		doc["depends"] = map[string]any{}
	})
}

func patchJSON(path string, patch func(map[string]any)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode manifest %s: %w", filepath.Base(path), err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	patch(doc)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, out, 0o644)
}
