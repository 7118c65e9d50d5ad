// SPDX-License-Identifier: MPL-2.0

package modspec

type (
	// RawRule is one rule as written by the probe into run/rules.json.
	// Name is unique within one extraction.
	RawRule struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Value       string   `json:"value"`
		Strict      bool     `json:"strict"`
		Categories  []string `json:"categories"`
		Options     []string `json:"options"`
		Extras      []string `json:"extras"`
		Validators  []string `json:"validators"`
		ConfigFiles []string `json:"config_files"`
	}

	// Rule is a RawRule tagged with its mod and every major version it
	// appears in. MinecraftVersions and VersionURLs are parallel lists.
	Rule struct {
		RawRule

		ModName           string         `json:"mod_name"`
		ModSlug           string         `json:"mod_slug"`
		ModURL            string         `json:"mod_url"`
		MinecraftVersions []MajorVersion `json:"minecraft_versions"`
		VersionURLs       []string       `json:"version_urls"`
	}
)

// Normalize replaces nil lists with empty ones so absent and empty lists
// compare and serialize the same way.
func (r *RawRule) Normalize() {
	for _, list := range []*[]string{&r.Categories, &r.Options, &r.Extras, &r.Validators, &r.ConfigFiles} {
		if *list == nil {
			*list = []string{}
		}
	}
}
