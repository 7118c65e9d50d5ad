// SPDX-License-Identifier: MPL-2.0

// Package update checks the registries for mod releases newer than the ones
// pinned in the mods document. It only reports; nothing is modified.
package update

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/registry"

	"github.com/charmbracelet/log"
)

const (
	// StatusUpToDate means the pinned release is the newest one.
	StatusUpToDate Status = iota
	// StatusOutdated means a newer release exists.
	StatusOutdated
	// StatusNotFound means no release supports the major version.
	StatusNotFound
	// StatusSkipped means the source kind cannot be checked.
	StatusSkipped
)

type (
	// Status is the outcome of checking one mod/version pair.
	Status int

	// Registry is the subset of the registry client used for update checks.
	Registry interface {
		ModrinthVersions(ctx context.Context, slug string) ([]registry.ModrinthVersion, error)
		CurseForgeProject(ctx context.Context, projectID int64) (*registry.CurseForgeProject, error)
	}

	// Result reports one mod/version pair.
	Result struct {
		Slug   string
		Major  modspec.MajorVersion
		Source modspec.SourceKind
		Status Status
		// Current is the pinned version or file id.
		Current string
		// Latest and LatestID describe the newest release when one was found.
		Latest   string
		LatestID string
	}

	// Checker queries each project at most once per run.
	Checker struct {
		reg        Registry
		logger     *log.Logger
		modrinth   map[string][]registry.ModrinthVersion
		curseforge map[int64]*registry.CurseForgeProject
	}
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up to date"
	case StatusOutdated:
		return "outdated"
	case StatusNotFound:
		return "not found"
	case StatusSkipped:
		return "skipped"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// NewChecker creates a Checker backed by reg.
func NewChecker(reg Registry, logger *log.Logger) *Checker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Checker{
		reg:        reg,
		logger:     logger.WithPrefix("update"),
		modrinth:   make(map[string][]registry.ModrinthVersion),
		curseforge: make(map[int64]*registry.CurseForgeProject),
	}
}

// Check reports every mod/version pair in document order. A registry failure
// aborts the check.
func (c *Checker) Check(ctx context.Context, mods []modspec.Mod) ([]Result, error) {
	var results []Result
	for i := range mods {
		mod := &mods[i]
		for _, entry := range mod.OrderedVersions() {
			res, err := c.checkOne(ctx, mod, entry)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func (c *Checker) checkOne(ctx context.Context, mod *modspec.Mod, entry modspec.VersionEntry) (Result, error) {
	src := entry.Version.Source
	res := Result{Slug: mod.Slug, Major: entry.Major, Source: src.Kind}

	switch src.Kind {
	case modspec.SourceModrinth:
		res.Current = src.Version
		versions, err := c.modrinthVersions(ctx, mod.Slug)
		if err != nil {
			return res, err
		}
		latest, ok := newest(entry.Major, versions, func(v registry.ModrinthVersion) []string { return v.GameVersions })
		if !ok {
			res.Status = StatusNotFound
			return res, nil
		}
		res.Latest, res.LatestID = latest.VersionNumber, latest.ID
		if latest.VersionNumber == src.Version || latest.ID == src.Version {
			res.Status = StatusUpToDate
		} else {
			res.Status = StatusOutdated
		}

	case modspec.SourceCurseForge:
		res.Current = strconv.FormatInt(src.FileID, 10)
		project, err := c.curseForgeProject(ctx, mod.ProjectID)
		if err != nil {
			return res, err
		}
		files := slices.DeleteFunc(slices.Clone(project.Files), func(f registry.CurseForgeFile) bool { return !f.IsFabric() })
		latest, ok := newest(entry.Major, files, func(f registry.CurseForgeFile) []string { return f.Versions })
		if !ok {
			res.Status = StatusNotFound
			return res, nil
		}
		res.Latest, res.LatestID = latest.Display, strconv.FormatInt(latest.ID, 10)
		if latest.ID == src.FileID {
			res.Status = StatusUpToDate
		} else {
			res.Status = StatusOutdated
		}

	default:
		res.Current = src.Tag
		res.Status = StatusSkipped
	}

	c.logger.Debug("checked", "slug", res.Slug, "major", res.Major, "status", res.Status)
	return res, nil
}

func (c *Checker) modrinthVersions(ctx context.Context, slug string) ([]registry.ModrinthVersion, error) {
	if versions, ok := c.modrinth[slug]; ok {
		return versions, nil
	}
	versions, err := c.reg.ModrinthVersions(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.modrinth[slug] = versions
	return versions, nil
}

func (c *Checker) curseForgeProject(ctx context.Context, projectID int64) (*registry.CurseForgeProject, error) {
	if project, ok := c.curseforge[projectID]; ok {
		return project, nil
	}
	project, err := c.reg.CurseForgeProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(project.Files, func(a, b registry.CurseForgeFile) int {
		return a.UploadedAt.Compare(b.UploadedAt)
	})
	c.curseforge[projectID] = project
	return project, nil
}

// newest picks, among releases sorted oldest first, the most recent one
// supporting the highest game version of major that any release supports.
func newest[T any](major modspec.MajorVersion, releases []T, gameVersions func(T) []string) (T, bool) {
	var minors []string
	for _, r := range releases {
		for _, gv := range gameVersions(r) {
			if major.Matches(gv) && !slices.Contains(minors, gv) {
				minors = append(minors, gv)
			}
		}
	}
	slices.SortFunc(minors, func(a, b string) int { return modspec.CompareGameVersions(b, a) })

	for _, minor := range minors {
		for i := len(releases) - 1; i >= 0; i-- {
			if slices.Contains(gameVersions(releases[i]), minor) {
				return releases[i], true
			}
		}
	}
	var zero T
	return zero, false
}

// Summary counts results by status.
func Summary(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// Line formats a result as a single human-readable line.
func (r Result) Line() string {
	where := ""
	if r.Source == modspec.SourceCurseForge {
		where = " on CurseForge"
	}
	switch r.Status {
	case StatusUpToDate:
		return fmt.Sprintf("%s on %s is up to date%s", r.Slug, r.Major, where)
	case StatusOutdated:
		if r.Source == modspec.SourceCurseForge {
			return fmt.Sprintf("%s has new version for %s%s: id '%s'", r.Slug, r.Major, where, r.LatestID)
		}
		return fmt.Sprintf("%s has new version for %s: name '%s', id '%s'", r.Slug, r.Major, r.Latest, r.LatestID)
	case StatusNotFound:
		return fmt.Sprintf("no version found for %s on %s%s", r.Slug, r.Major, where)
	default:
		return fmt.Sprintf("skipping %s source for %s", r.Source, r.Slug)
	}
}
