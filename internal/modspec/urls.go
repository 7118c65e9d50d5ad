// SPDX-License-Identifier: MPL-2.0

package modspec

import "fmt"

// CurseForgeSlugOrDefault returns the CurseForge slug alias, falling back to Slug.
func (m *Mod) CurseForgeSlugOrDefault() string {
	if m.CurseForgeSlug != "" {
		return m.CurseForgeSlug
	}
	return m.Slug
}

// URL returns the project page for the registry of the latest major version.
func (m *Mod) URL() (string, error) {
	entries := m.OrderedVersions()
	if len(entries) == 0 {
		return "", &InvalidDocumentError{Mod: m.Slug, Reason: "versions must not be empty"}
	}
	switch entries[len(entries)-1].Version.Source.Kind {
	case SourceModrinth:
		return "https://modrinth.com/mod/" + m.Slug, nil
	case SourceCurseForge:
		return "https://curseforge.com/minecraft/mc-mods/" + m.CurseForgeSlugOrDefault(), nil
	case SourceGitHub:
		return "https://github.com/" + m.Repo, nil
	default:
		return "", &InvalidDocumentError{Mod: m.Slug, Reason: "latest version has no valid source"}
	}
}

// ReleaseURL returns the page of the release a version is built from.
func (m *Mod) ReleaseURL(src Source) string {
	switch src.Kind {
	case SourceModrinth:
		return fmt.Sprintf("https://modrinth.com/mod/%s/version/%s", m.Slug, src.Version)
	case SourceCurseForge:
		return fmt.Sprintf("https://curseforge.com/minecraft/mc-mods/%s/files/%d", m.CurseForgeSlugOrDefault(), src.FileID)
	case SourceGitHub:
		return fmt.Sprintf("https://github.com/%s/releases/tag/%s", m.Repo, src.Tag)
	default:
		return ""
	}
}
