// SPDX-License-Identifier: MPL-2.0

package consolidate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/RubixDev/carpet-database/internal/modspec"
)

type (
	// Count is the number of distinct rule names under one key.
	Count struct {
		Key   string
		Count int
	}

	// Stats summarizes a consolidated dataset. Every list is sorted by
	// descending count; equal counts keep ascending key order.
	Stats struct {
		Total      int
		ByMod      []Count
		ByVersion  []Count
		ByCategory []Count
	}

	nameSets map[string]map[string]struct{}
)

func (s nameSets) add(key, name string) {
	set, ok := s[key]
	if !ok {
		set = make(map[string]struct{})
		s[key] = set
	}
	set[name] = struct{}{}
}

func (s nameSets) counts(keyOrder func(a, b string) int) []Count {
	out := make([]Count, 0, len(s))
	for key, names := range s {
		out = append(out, Count{Key: key, Count: len(names)})
	}
	slices.SortFunc(out, func(a, b Count) int { return keyOrder(a.Key, b.Key) })
	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// ComputeStats counts distinct rule names per mod, per major version and
// per category. Total is the sum of the per-mod counts.
func ComputeStats(rules []modspec.Rule) Stats {
	byMod, byVersion, byCategory := nameSets{}, nameSets{}, nameSets{}
	for i := range rules {
		r := &rules[i]
		byMod.add(r.ModName, r.Name)
		for _, v := range r.MinecraftVersions {
			byVersion.add(string(v), r.Name)
		}
		for _, c := range r.Categories {
			byCategory.add(c, r.Name)
		}
	}

	stats := Stats{
		ByMod: byMod.counts(strings.Compare),
		ByVersion: byVersion.counts(func(a, b string) int {
			return modspec.MajorVersion(a).Compare(modspec.MajorVersion(b))
		}),
		ByCategory: byCategory.counts(strings.Compare),
	}
	for _, c := range stats.ByMod {
		stats.Total += c.Count
	}
	return stats
}

// Markdown renders the human-readable statistics report.
func (s Stats) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Rules parsed**: %d\n\n", s.Total)
	b.WriteString("Count per mod:\n\n")
	for _, c := range s.ByMod {
		fmt.Fprintf(&b, "- **%s**: %d\n", c.Key, c.Count)
	}
	b.WriteString("\nCount per version:\n\n")
	for _, c := range s.ByVersion {
		fmt.Fprintf(&b, "- **%s**: %d\n", c.Key, c.Count)
	}
	b.WriteString("\nCount per category:\n\n")
	for _, c := range s.ByCategory {
		fmt.Fprintf(&b, "- `%s`: %d\n", c.Key, c.Count)
	}
	return b.String()
}
