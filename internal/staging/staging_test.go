// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/registry"
	"github.com/RubixDev/carpet-database/internal/resolve"
	"github.com/RubixDev/carpet-database/internal/testutil"
)

type fakeFetcher struct {
	urls []string
	err  error
}

func (f *fakeFetcher) Download(_ context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("jar"), 0o644)
}

func (f *fakeFetcher) ModrinthMavenURL(slug, version, filename string) string {
	return "modrinth/" + slug + "/" + version + "/" + filename
}

func (f *fakeFetcher) GitHubAssetURL(repo, tag, asset string) string {
	return "github/" + repo + "/" + tag + "/" + asset
}

func newSkeleton(t *testing.T) (templates string) {
	t.Helper()

	templates = t.TempDir()
	root := filepath.Join(templates, "1.20.4")
	files := map[string]string{
		"build.gradle":                                  "plugins { id 'fabric-loom' }\n",
		"src/main/resources/fabric.mod.json":            "{}",
		"src/main/resources/data-extractor.mixins.json": "{}",
	}
	testutil.MustWriteTree(t, root, files)
	if err := os.WriteFile(filepath.Join(root, "gradlew"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return templates
}

func effective(t *testing.T, src modspec.Source, deps ...string) *resolve.Effective {
	t.Helper()

	mod := &modspec.Mod{
		Name:               "Carpet TIS Addition",
		Slug:               "carpet-tis-addition",
		ProjectID:          397510,
		Repo:               "Fallen-Breath/carpet-tis-addition",
		SettingsClasses:    []string{"carpettisaddition.CarpetTISAdditionSettings"},
		CommonDependencies: deps,
		Versions: map[string]modspec.Version{
			"1.20": {MinecraftVersion: "1.20.4", PrinterVersion: modspec.PrinterV3, Source: src},
		},
	}
	eff, err := resolve.Resolve(mod, "1.20")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return eff
}

func TestStage(t *testing.T) {
	t.Parallel()

	templates := newSkeleton(t)
	active := filepath.Join(t.TempDir(), "active")
	if err := os.MkdirAll(filepath.Join(active, "stale"), 0o755); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{}
	stager := New(templates, active, fetcher)
	eff := effective(t, modspec.Source{Kind: modspec.SourceModrinth, Version: "1.4.128"}, "maven.modrinth:carpet:1.4.128", "a:b:1")

	if err := stager.Stage(context.Background(), eff); err != nil {
		t.Fatalf("Stage() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(active, "stale")); !os.IsNotExist(err) {
		t.Error("previous working copy should be removed")
	}
	eula, err := os.ReadFile(filepath.Join(active, "run", "eula.txt"))
	if err != nil || string(eula) != "eula=true" {
		t.Errorf("eula = %q, %v", eula, err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(active, "gradlew"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Errorf("gradlew lost its executable bit: %v", info.Mode())
		}
	}

	gradle, err := os.ReadFile(filepath.Join(active, "build.gradle"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(gradle)
	if !strings.HasPrefix(text, "plugins { id 'fabric-loom' }\n") {
		t.Error("skeleton build descriptor content should be kept")
	}
	for _, want := range []string{
		`maven { url = "https://api.modrinth.com/maven" }`,
		`includeGroup "maven.modrinth"`,
		`maven { url = "https://jitpack.io" }`,
		`maven { url = "https://cursemaven.com" }`,
		`includeGroup "curse.maven"`,
		"dependencies {\n    modImplementation 'maven.modrinth:carpet-tis-addition:1.4.128'\n    modImplementation 'maven.modrinth:carpet:1.4.128'\n    modImplementation 'a:b:1'\n}\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("build.gradle missing %q", want)
		}
	}
	if len(fetcher.urls) != 0 {
		t.Errorf("maven coordinates should not download, got %v", fetcher.urls)
	}
}

func TestMainDependency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       modspec.Source
		want      string
		wantFetch string
	}{
		{
			name: "modrinth maven",
			src:  modspec.Source{Kind: modspec.SourceModrinth, Version: "v1.2"},
			want: "'maven.modrinth:carpet-tis-addition:v1.2'",
		},
		{
			name:      "modrinth explicit filename",
			src:       modspec.Source{Kind: modspec.SourceModrinth, Version: "v1.2", Filename: "tis-1.20.jar"},
			want:      "files('libs/mod.jar')",
			wantFetch: "modrinth/carpet-tis-addition/v1.2/tis-1.20.jar",
		},
		{
			name: "curseforge",
			src:  modspec.Source{Kind: modspec.SourceCurseForge, FileID: 4321},
			want: "'curse.maven:carpet-tis-addition-397510:4321'",
		},
		{
			name:      "github",
			src:       modspec.Source{Kind: modspec.SourceGitHub, Tag: "v1", Asset: "tis.jar"},
			want:      "files('libs/mod.jar')",
			wantFetch: "github/Fallen-Breath/carpet-tis-addition/v1/tis.jar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			active := t.TempDir()
			fetcher := &fakeFetcher{}
			got, err := New("", active, fetcher).MainDependency(context.Background(), effective(t, tt.src))
			if err != nil {
				t.Fatalf("MainDependency() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MainDependency() = %q, want %q", got, tt.want)
			}
			if tt.wantFetch == "" {
				if len(fetcher.urls) != 0 {
					t.Errorf("unexpected downloads: %v", fetcher.urls)
				}
				return
			}
			if len(fetcher.urls) != 1 || fetcher.urls[0] != tt.wantFetch {
				t.Errorf("downloads = %v, want [%s]", fetcher.urls, tt.wantFetch)
			}
			if _, err := os.Stat(filepath.Join(active, "libs", "mod.jar")); err != nil {
				t.Errorf("jar not placed in libs: %v", err)
			}
		})
	}
}

func TestStage_DownloadFailure(t *testing.T) {
	t.Parallel()

	statusErr := &registry.StatusError{URL: "https://example.invalid/x.jar", StatusCode: 404, Status: "404 Not Found"}
	stager := New(newSkeleton(t), filepath.Join(t.TempDir(), "active"), &fakeFetcher{err: statusErr})
	eff := effective(t, modspec.Source{Kind: modspec.SourceGitHub, Tag: "v1", Asset: "x.jar"})

	err := stager.Stage(context.Background(), eff)
	var got *registry.StatusError
	if !errors.As(err, &got) || got.StatusCode != 404 {
		t.Errorf("Stage() error = %v, want wrapped StatusError", err)
	}
}

func TestStage_MissingSkeleton(t *testing.T) {
	t.Parallel()

	stager := New(t.TempDir(), filepath.Join(t.TempDir(), "active"), &fakeFetcher{})
	eff := effective(t, modspec.Source{Kind: modspec.SourceModrinth, Version: "1"})
	if err := stager.Stage(context.Background(), eff); err == nil {
		t.Error("expected error when the skeleton for the version is missing")
	}
}
