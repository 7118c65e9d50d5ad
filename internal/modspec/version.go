// SPDX-License-Identifier: MPL-2.0

package modspec

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var majorPattern = regexp.MustCompile(`^1\.[0-9]+$`)

// MajorVersion is a Minecraft major version such as "1.20". Extraction
// results are cached and consolidated per major version.
type MajorVersion string

// Validate reports whether the major version has the form 1.N.
func (v MajorVersion) Validate() error {
	if !majorPattern.MatchString(string(v)) {
		return fmt.Errorf("invalid major version %q (expected 1.N)", string(v))
	}
	return nil
}

// String returns the major version as written in the document.
func (v MajorVersion) String() string { return string(v) }

// Compare orders major versions numerically (1.9 < 1.10).
func (v MajorVersion) Compare(other MajorVersion) int {
	return semver.Compare("v"+string(v), "v"+string(other))
}

// Matches reports whether a concrete game version ("1.20", "1.20.4")
// belongs to this major version.
func (v MajorVersion) Matches(gameVersion string) bool {
	return gameVersion == string(v) || strings.HasPrefix(gameVersion, string(v)+".")
}

// CompareGameVersions orders concrete game versions numerically. Versions that
// are not dotted release numbers (snapshots) sort before releases.
func CompareGameVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}
