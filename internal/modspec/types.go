// SPDX-License-Identifier: MPL-2.0

package modspec

import (
	"errors"
	"fmt"
	"slices"
)

const (
	PrinterV1         PrinterVersion = "v1"
	PrinterV2         PrinterVersion = "v2"
	PrinterV3         PrinterVersion = "v3"
	PrinterMagicLibV1 PrinterVersion = "magiclib_v1"
	PrinterMagicLibV2 PrinterVersion = "magiclib_v2"

	RunModeUnset  RunMode = ""
	RunModeClient RunMode = "client"
	RunModeServer RunMode = "server"

	SourceModrinth   SourceKind = "modrinth"
	SourceCurseForge SourceKind = "curseforge"
	SourceGitHub     SourceKind = "github"
)

// ErrInvalidDocument is the sentinel wrapped by every document validation error.
var ErrInvalidDocument = errors.New("invalid mods document")

type (
	// PrinterVersion selects the probe template generation.
	PrinterVersion string

	// RunMode selects the gradle task used to boot the game.
	RunMode string

	// SourceKind tags the variant populated in a Source.
	SourceKind string

	// Source describes where the mod artifact for one version comes from.
	// Exactly one variant is populated, selected by Kind.
	Source struct {
		Kind SourceKind `json:"type"`

		// modrinth
		Version  string `json:"version,omitempty"`
		Filename string `json:"filename,omitempty"`

		// curseforge
		FileID int64 `json:"file_id,omitempty"`

		// github
		Tag   string `json:"tag,omitempty"`
		Asset string `json:"asset,omitempty"`
	}

	// Version holds the per-major-version overrides of a Mod.
	Version struct {
		MinecraftVersion     string         `json:"minecraft_version"`
		PrinterVersion       PrinterVersion `json:"printer_version"`
		Entrypoint           string         `json:"entrypoint,omitempty"`
		SettingsManager      string         `json:"settings_manager,omitempty"`
		SettingsManagerClass string         `json:"settings_manager_class,omitempty"`
		RuleAnnotationClass  string         `json:"rule_annotation_class,omitempty"`
		SettingsClasses      []string       `json:"settings_classes,omitempty"`
		RunMode              RunMode        `json:"run_mode,omitempty"`
		Dependencies         []string       `json:"dependencies,omitempty"`
		Source               Source         `json:"source"`
	}

	// Mod is one extracted project with its defaults and version table.
	Mod struct {
		Name           string `json:"name"`
		Slug           string `json:"slug"`
		CurseForgeSlug string `json:"curseforge_slug,omitempty"`
		ProjectID      int64  `json:"project_id,omitempty"`
		Repo           string `json:"repo,omitempty"`

		Entrypoint           string   `json:"entrypoint,omitempty"`
		SettingsManager      string   `json:"settings_manager,omitempty"`
		SettingsManagerClass string   `json:"settings_manager_class,omitempty"`
		RuleAnnotationClass  string   `json:"rule_annotation_class,omitempty"`
		SettingsClasses      []string `json:"settings_classes,omitempty"`
		RunMode              RunMode  `json:"run_mode,omitempty"`
		CommonDependencies   []string `json:"common_dependencies,omitempty"`

		Versions map[string]Version `json:"versions"`
	}

	// VersionEntry pairs a major version with its Version.
	VersionEntry struct {
		Major   MajorVersion
		Version Version
	}

	// Document is the root of the static mods document.
	Document struct {
		Mods []Mod `json:"mods"`
	}

	// InvalidDocumentError reports a semantic problem the schema cannot express.
	InvalidDocumentError struct {
		Mod    string
		Major  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidDocumentError) Error() string {
	switch {
	case e.Major != "":
		return fmt.Sprintf("mod %q, version %s: %s", e.Mod, e.Major, e.Reason)
	case e.Mod != "":
		return fmt.Sprintf("mod %q: %s", e.Mod, e.Reason)
	default:
		return e.Reason
	}
}

// Unwrap returns ErrInvalidDocument for errors.Is detection.
func (e *InvalidDocumentError) Unwrap() error { return ErrInvalidDocument }

// String returns the printer version name.
func (p PrinterVersion) String() string { return string(p) }

// IsMagicLib reports whether the printer targets MagicLib's wrapped settings manager.
func (p PrinterVersion) IsMagicLib() bool {
	return p == PrinterMagicLibV1 || p == PrinterMagicLibV2
}

// Validate reports an error for unknown printer versions.
func (p PrinterVersion) Validate() error {
	switch p {
	case PrinterV1, PrinterV2, PrinterV3, PrinterMagicLibV1, PrinterMagicLibV2:
		return nil
	default:
		return fmt.Errorf("unknown printer version %q", string(p))
	}
}

// Task returns the gradle task that boots the game in this mode.
func (m RunMode) Task() string {
	if m == RunModeClient {
		return "runClient"
	}
	return "runServer"
}

// Validate checks that exactly the fields of the tagged variant are set.
func (s Source) Validate() error {
	switch s.Kind {
	case SourceModrinth:
		if s.Version == "" {
			return errors.New("modrinth source requires a version")
		}
		if s.FileID != 0 || s.Tag != "" || s.Asset != "" {
			return errors.New("modrinth source must not set curseforge or github fields")
		}
	case SourceCurseForge:
		if s.FileID <= 0 {
			return errors.New("curseforge source requires a positive file_id")
		}
		if s.Version != "" || s.Filename != "" || s.Tag != "" || s.Asset != "" {
			return errors.New("curseforge source must not set modrinth or github fields")
		}
	case SourceGitHub:
		if s.Tag == "" || s.Asset == "" {
			return errors.New("github source requires a tag and an asset")
		}
		if s.Version != "" || s.Filename != "" || s.FileID != 0 {
			return errors.New("github source must not set modrinth or curseforge fields")
		}
	default:
		return fmt.Errorf("unknown source type %q", string(s.Kind))
	}
	return nil
}

// OrderedVersions returns the version table sorted by ascending major version.
func (m *Mod) OrderedVersions() []VersionEntry {
	entries := make([]VersionEntry, 0, len(m.Versions))
	for major, v := range m.Versions {
		entries = append(entries, VersionEntry{Major: MajorVersion(major), Version: v})
	}
	slices.SortFunc(entries, func(a, b VersionEntry) int { return a.Major.Compare(b.Major) })
	return entries
}

// Validate checks the rules the schema cannot express.
func (m *Mod) Validate() error {
	if len(m.Versions) == 0 {
		return &InvalidDocumentError{Mod: m.Slug, Reason: "versions must not be empty"}
	}
	for _, entry := range m.OrderedVersions() {
		fail := func(reason string) error {
			return &InvalidDocumentError{Mod: m.Slug, Major: string(entry.Major), Reason: reason}
		}
		if err := entry.Major.Validate(); err != nil {
			return fail(err.Error())
		}
		if err := entry.Version.PrinterVersion.Validate(); err != nil {
			return fail(err.Error())
		}
		if err := entry.Version.Source.Validate(); err != nil {
			return fail(err.Error())
		}
		switch entry.Version.Source.Kind {
		case SourceGitHub:
			if m.Repo == "" {
				return fail("github source requires the mod to set repo")
			}
		case SourceCurseForge:
			if m.ProjectID == 0 {
				return fail("curseforge source requires the mod to set project_id")
			}
		}
	}
	return nil
}

// Validate validates every mod and rejects duplicate slugs.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Mods))
	for i := range d.Mods {
		if seen[d.Mods[i].Slug] {
			return &InvalidDocumentError{Mod: d.Mods[i].Slug, Reason: "duplicate slug"}
		}
		seen[d.Mods[i].Slug] = true
		if err := d.Mods[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the mod with the given slug.
func (d *Document) Find(slug string) (*Mod, bool) {
	for i := range d.Mods {
		if d.Mods[i].Slug == slug {
			return &d.Mods[i], true
		}
	}
	return nil, false
}

// MinecraftVersions returns the distinct concrete Minecraft versions used by mods, sorted.
func MinecraftVersions(mods []Mod) []string {
	var versions []string
	for i := range mods {
		for _, v := range mods[i].Versions {
			if !slices.Contains(versions, v.MinecraftVersion) {
				versions = append(versions, v.MinecraftVersion)
			}
		}
	}
	slices.Sort(versions)
	return versions
}
