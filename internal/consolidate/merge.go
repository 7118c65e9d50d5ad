// SPDX-License-Identifier: MPL-2.0

package consolidate

import (
	"slices"
	"sort"

	"github.com/RubixDev/carpet-database/internal/modspec"
)

// Output is the rule list of one (mod, major version) pair, in the order
// pairs were processed.
type Output struct {
	ModName    string
	ModSlug    string
	ModURL     string
	Major      modspec.MajorVersion
	VersionURL string
	Rules      []modspec.RawRule
}

// Merge folds outputs into consolidated rules. A rule that is the same as an
// existing entry (see sameRule) updates every such entry: description and
// validators are replaced by the newer values and the major version and its
// release URL are appended. Otherwise it becomes a new entry. The result is
// sorted by name; entries with equal names keep their first-seen order.
func Merge(outputs []Output) []modspec.Rule {
	var combined []modspec.Rule

	for _, out := range outputs {
		for _, raw := range out.Rules {
			raw.Normalize()
			rule := modspec.Rule{
				RawRule:           raw,
				ModName:           out.ModName,
				ModSlug:           out.ModSlug,
				ModURL:            out.ModURL,
				MinecraftVersions: []modspec.MajorVersion{out.Major},
				VersionURLs:       []string{out.VersionURL},
			}

			matched := false
			for i := range combined {
				existing := &combined[i]
				if !sameRule(existing, &rule) {
					continue
				}
				existing.Description = rule.Description
				existing.Validators = slices.Clone(rule.Validators)
				existing.MinecraftVersions = append(existing.MinecraftVersions, out.Major)
				existing.VersionURLs = append(existing.VersionURLs, out.VersionURL)
				matched = true
			}
			if !matched {
				combined = append(combined, rule)
			}
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Name < combined[j].Name
	})
	return combined
}

// sameRule reports whether b is another occurrence of a. Validator lists
// match when either one contains every entry of the other, so a list that
// shrank between versions also matches.
func sameRule(a, b *modspec.Rule) bool {
	return a.Name == b.Name &&
		a.Type == b.Type &&
		a.Value == b.Value &&
		a.Strict == b.Strict &&
		slices.Equal(a.Categories, b.Categories) &&
		slices.Equal(a.Options, b.Options) &&
		(containsAll(b.Validators, a.Validators) || containsAll(a.Validators, b.Validators)) &&
		slices.Equal(a.ConfigFiles, b.ConfigFiles) &&
		a.ModName == b.ModName &&
		a.ModSlug == b.ModSlug &&
		a.ModURL == b.ModURL
}

// containsAll reports whether every element of sub is in set.
func containsAll(set, sub []string) bool {
	for _, v := range sub {
		if !slices.Contains(set, v) {
			return false
		}
	}
	return true
}
