// SPDX-License-Identifier: MPL-2.0

package update

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/registry"
)

const modrinthVersionsJSON = `[
  {"id": "AAA", "version_number": "1.4.100", "game_versions": ["1.20.1"], "loaders": ["fabric"], "date_published": "2023-06-20T00:00:00Z"},
  {"id": "BBB", "version_number": "1.4.120", "game_versions": ["1.20.4"], "loaders": ["fabric"], "date_published": "2023-12-10T00:00:00Z"},
  {"id": "CCC", "version_number": "1.4.121", "game_versions": ["1.20.1"], "loaders": ["fabric"], "date_published": "2024-01-05T00:00:00Z"},
  {"id": "DDD", "version_number": "1.4.122", "game_versions": ["1.20.4"], "loaders": ["quilt"], "date_published": "2024-02-01T00:00:00Z"},
  {"id": "EEE", "version_number": "1.3.9", "game_versions": ["1.19.4"], "loaders": ["fabric"], "date_published": "2023-03-01T00:00:00Z"}
]`

const cfProjectJSON = `{
  "id": 349239,
  "title": "Carpet TIS Addition",
  "files": [
    {"id": 5001, "display": "tis-1.19.4", "versions": ["1.19.4", "Fabric"], "uploaded_at": "2023-05-01T00:00:00Z"},
    {"id": 5003, "display": "tis-1.20.1-forge", "versions": ["1.20.1", "Forge"], "uploaded_at": "2024-01-01T00:00:00Z"},
    {"id": 5002, "display": "tis-1.20.1", "versions": ["1.20.1", "Fabric"], "uploaded_at": "2023-09-01T00:00:00Z"}
  ]
}`

type counts struct {
	modrinth   atomic.Int32
	curseforge atomic.Int32
}

func newServer(t *testing.T, c *counts) *registry.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/project/carpet-extra/version":
			c.modrinth.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(modrinthVersionsJSON))
		case r.URL.Path == "/349239":
			c.curseforge.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(cfProjectJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return registry.NewClient(registry.WithModrinthAPI(srv.URL), registry.WithCFWidgetAPI(srv.URL))
}

func modrinthMod(versions map[string]string) modspec.Mod {
	m := modspec.Mod{Name: "Carpet Extra", Slug: "carpet-extra", Versions: map[string]modspec.Version{}}
	for major, v := range versions {
		m.Versions[major] = modspec.Version{
			MinecraftVersion: major,
			Source:           modspec.Source{Kind: modspec.SourceModrinth, Version: v},
		}
	}
	return m
}

func TestCheck_Modrinth(t *testing.T) {
	t.Parallel()

	var c counts
	checker := NewChecker(newServer(t, &c), nil)

	mods := []modspec.Mod{modrinthMod(map[string]string{
		"1.19": "1.3.9",
		"1.20": "1.4.120",
		"1.18": "1.2.0",
	})}
	results, err := checker.Check(context.Background(), mods)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	tests := []struct {
		major      modspec.MajorVersion
		wantStatus Status
		wantID     string
	}{
		{"1.18", StatusNotFound, ""},
		{"1.19", StatusUpToDate, "EEE"},
		// 1.20.4 is the highest minor; the quilt-only DDD does not count.
		{"1.20", StatusUpToDate, "BBB"},
	}
	for i, tt := range tests {
		got := results[i]
		if got.Major != tt.major || got.Status != tt.wantStatus || got.LatestID != tt.wantID {
			t.Errorf("result %d = %+v, want major %s status %s id %q", i, got, tt.major, tt.wantStatus, tt.wantID)
		}
	}
	if n := c.modrinth.Load(); n != 1 {
		t.Errorf("Modrinth queried %d times, want 1", n)
	}
}

func TestCheck_ModrinthOutdatedMatchesByID(t *testing.T) {
	t.Parallel()

	var c counts
	checker := NewChecker(newServer(t, &c), nil)

	results, err := checker.Check(context.Background(), []modspec.Mod{
		modrinthMod(map[string]string{"1.20": "1.4.100"}),
		modrinthMod(map[string]string{"1.20": "BBB"}),
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if results[0].Status != StatusOutdated || results[0].Latest != "1.4.120" {
		t.Errorf("results[0] = %+v, want outdated to 1.4.120", results[0])
	}
	if results[1].Status != StatusUpToDate {
		t.Errorf("results[1] = %+v, want up to date by id", results[1])
	}
	if !strings.Contains(results[0].Line(), "name '1.4.120', id 'BBB'") {
		t.Errorf("Line() = %q", results[0].Line())
	}
	// Both mods share the slug, so the cached listing is reused.
	if n := c.modrinth.Load(); n != 1 {
		t.Errorf("Modrinth queried %d times, want 1", n)
	}
}

func TestCheck_CurseForge(t *testing.T) {
	t.Parallel()

	var c counts
	checker := NewChecker(newServer(t, &c), nil)

	mod := modspec.Mod{
		Name:      "Carpet TIS Addition",
		Slug:      "carpet-tis-addition",
		ProjectID: 349239,
		Versions: map[string]modspec.Version{
			"1.19": {MinecraftVersion: "1.19.4", Source: modspec.Source{Kind: modspec.SourceCurseForge, FileID: 5001}},
			"1.20": {MinecraftVersion: "1.20.1", Source: modspec.Source{Kind: modspec.SourceCurseForge, FileID: 4000}},
		},
	}
	results, err := checker.Check(context.Background(), []modspec.Mod{mod})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if results[0].Status != StatusUpToDate {
		t.Errorf("1.19 = %+v, want up to date", results[0])
	}
	// The newer Forge upload is ignored.
	if results[1].Status != StatusOutdated || results[1].LatestID != "5002" {
		t.Errorf("1.20 = %+v, want outdated to 5002", results[1])
	}
	if !strings.Contains(results[1].Line(), "on CurseForge: id '5002'") {
		t.Errorf("Line() = %q", results[1].Line())
	}
	if n := c.curseforge.Load(); n != 1 {
		t.Errorf("cfwidget queried %d times, want 1", n)
	}
}

func TestCheck_GitHubSkipped(t *testing.T) {
	t.Parallel()

	var c counts
	checker := NewChecker(newServer(t, &c), nil)

	mod := modspec.Mod{
		Slug: "gugle-carpet-addition",
		Repo: "Gu-ZT/gugle-carpet-addition",
		Versions: map[string]modspec.Version{
			"1.20": {MinecraftVersion: "1.20.4", Source: modspec.Source{Kind: modspec.SourceGitHub, Tag: "v1.0", Asset: "mod.jar"}},
		},
	}
	results, err := checker.Check(context.Background(), []modspec.Mod{mod})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if results[0].Status != StatusSkipped {
		t.Errorf("Status = %s, want skipped", results[0].Status)
	}
	if c.modrinth.Load()+c.curseforge.Load() != 0 {
		t.Error("GitHub sources must not query a registry")
	}
}

func TestCheck_RegistryError(t *testing.T) {
	t.Parallel()

	var c counts
	checker := NewChecker(newServer(t, &c), nil)

	mod := modrinthMod(map[string]string{"1.20": "1.0"})
	mod.Slug = "missing"
	_, err := checker.Check(context.Background(), []modspec.Mod{mod})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("Check() error = %v, want ErrNotFound", err)
	}
}

func TestReportAndSummary(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Slug: "a", Major: "1.20", Source: modspec.SourceModrinth, Status: StatusUpToDate},
		{Slug: "b", Major: "1.20", Source: modspec.SourceCurseForge, Status: StatusOutdated, LatestID: "7"},
		{Slug: "c", Major: "1.19", Source: modspec.SourceGitHub, Status: StatusSkipped},
	}
	var buf bytes.Buffer
	Report(&buf, results)
	out := buf.String()
	for _, want := range []string{"a on 1.20 is up to date", "b has new version for 1.20 on CurseForge: id '7'", "skipping github source for c"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	counts := Summary(results)
	if counts[StatusUpToDate] != 1 || counts[StatusOutdated] != 1 || counts[StatusSkipped] != 1 {
		t.Errorf("Summary() = %v", counts)
	}
}
