// SPDX-License-Identifier: MPL-2.0

package modspec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleTOML = `
[[mods]]
name = "Carpet Extra"
slug = "carpet-extra"
repo = "gnembon/carpet-extra"
settings_classes = ["carpetextra.CarpetExtraSettings"]
common_dependencies = ["maven.modrinth:carpet:1.4.128"]

[mods.versions."1.20"]
minecraft_version = "1.20.4"
printer_version = "v3"
dependencies = ["maven.modrinth:fabric-api:0.91.0"]
source = { type = "modrinth", version = "1.4.128", filename = "carpet-extra-1.20.jar" }

[mods.versions."1.9"]
minecraft_version = "1.9.4"
printer_version = "v1"
run_mode = "client"
source = { type = "github", tag = "v1.0", asset = "carpet-extra.jar" }

[[mods]]
name = "Carpet TIS Addition"
slug = "carpet-tis-addition"
curseforge_slug = "carpet-tis-addition"
project_id = 397510
settings_classes = ["carpettisaddition.CarpetTISAdditionSettings"]

[mods.versions."1.19"]
minecraft_version = "1.19.4"
printer_version = "magiclib_v2"
source = { type = "curseforge", file_id = 4321 }
`

func TestParseTOML(t *testing.T) {
	t.Parallel()

	doc, err := ParseTOML([]byte(sampleTOML), "mods.toml")
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	if len(doc.Mods) != 2 {
		t.Fatalf("got %d mods, want 2", len(doc.Mods))
	}

	extra := doc.Mods[0]
	if extra.Slug != "carpet-extra" || len(extra.CommonDependencies) != 1 {
		t.Errorf("unexpected first mod: %+v", extra)
	}

	entries := extra.OrderedVersions()
	if len(entries) != 2 || entries[0].Major != "1.9" || entries[1].Major != "1.20" {
		t.Fatalf("versions not ordered numerically: %+v", entries)
	}
	if entries[0].Version.RunMode != RunModeClient {
		t.Errorf("run_mode = %q, want client", entries[0].Version.RunMode)
	}
	if src := entries[1].Version.Source; src.Kind != SourceModrinth || src.Filename != "carpet-extra-1.20.jar" {
		t.Errorf("unexpected modrinth source: %+v", src)
	}

	tis := doc.Mods[1]
	if tis.ProjectID != 397510 {
		t.Errorf("project_id = %d, want 397510", tis.ProjectID)
	}
	if src := tis.Versions["1.19"].Source; src.Kind != SourceCurseForge || src.FileID != 4321 {
		t.Errorf("unexpected curseforge source: %+v", src)
	}
}

func TestParseTOML_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "syntax error",
			doc:  "[[mods]\nname=",
		},
		{
			name: "unknown printer version",
			doc: `
[[mods]]
name = "X"
slug = "x"
[mods.versions."1.20"]
minecraft_version = "1.20.1"
printer_version = "v9"
source = { type = "modrinth", version = "1" }
`,
		},
		{
			name: "mixed source variants",
			doc: `
[[mods]]
name = "X"
slug = "x"
[mods.versions."1.20"]
minecraft_version = "1.20.1"
printer_version = "v3"
source = { type = "modrinth", version = "1", file_id = 3 }
`,
		},
		{
			name: "bad major key",
			doc: `
[[mods]]
name = "X"
slug = "x"
[mods.versions."twenty"]
minecraft_version = "1.20.1"
printer_version = "v3"
source = { type = "modrinth", version = "1" }
`,
		},
		{
			name: "github source without repo",
			doc: `
[[mods]]
name = "X"
slug = "x"
[mods.versions."1.20"]
minecraft_version = "1.20.1"
printer_version = "v3"
source = { type = "github", tag = "v1", asset = "x.jar" }
`,
		},
		{
			name: "no versions",
			doc: `
[[mods]]
name = "X"
slug = "x"
versions = {}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTOML([]byte(tt.doc), "mods.toml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("error should wrap ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestParseCUE(t *testing.T) {
	t.Parallel()

	doc, err := ParseCUE([]byte(`
mods: [{
	name: "Carpet"
	slug: "carpet"
	settings_classes: ["carpet.CarpetSettings"]
	versions: "1.20": {
		minecraft_version: "1.20.4"
		printer_version:   "v3"
		source: {type: "modrinth", version: "1.4.128"}
	}
}]
`), "mods.cue")
	if err != nil {
		t.Fatalf("ParseCUE() error = %v", err)
	}
	if len(doc.Mods) != 1 || doc.Mods[0].Versions["1.20"].PrinterVersion != PrinterV3 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "mods.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Mods) != 2 {
		t.Errorf("got %d mods, want 2", len(doc.Mods))
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
