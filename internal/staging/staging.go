// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/registry"
	"github.com/RubixDev/carpet-database/internal/resolve"
)

const (
	// LocalJarPath is where downloaded mod jars are placed, relative to the project.
	LocalJarPath = "libs/mod.jar"
	// RulesPath is the file the probe writes, relative to the project.
	RulesPath = "run/rules.json"

	eulaPath   = "run/eula.txt"
	buildFile  = "build.gradle"
	localJarID = "files('libs/mod.jar')"
)

type (
	// Fetcher resolves and downloads artifacts that are not available from a
	// maven repository.
	Fetcher interface {
		Download(ctx context.Context, url, dest string) error
		ModrinthMavenURL(slug, version, filename string) string
		GitHubAssetURL(repo, tag, asset string) string
	}

	// Stager prepares the working copy of a skeleton project.
	Stager struct {
		templatesDir  string
		activeDir     string
		modrinthMaven string
		fetcher       Fetcher
		logger        *log.Logger
	}

	// Option configures a Stager.
	Option func(*Stager)
)

// WithModrinthMaven overrides the Modrinth maven repository declared in the
// build descriptor.
func WithModrinthMaven(url string) Option {
	return func(s *Stager) { s.modrinthMaven = url }
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Stager) { s.logger = logger.WithPrefix("staging") }
}

// New creates a Stager that copies skeletons from templatesDir/<minecraft
// version> into activeDir.
func New(templatesDir, activeDir string, fetcher Fetcher, opts ...Option) *Stager {
	s := &Stager{
		templatesDir:  templatesDir,
		activeDir:     activeDir,
		modrinthMaven: registry.DefaultModrinthMaven,
		fetcher:       fetcher,
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the working copy directory.
func (s *Stager) Dir() string { return s.activeDir }

// Stage recreates the working copy for eff. Any previous working copy is
// removed first. The skeleton is copied, the EULA accepted, and the mod and
// its dependencies are declared in the build descriptor.
func (s *Stager) Stage(ctx context.Context, eff *resolve.Effective) error {
	s.logger.Info("removing previous working copy", "dir", s.activeDir)
	if err := os.RemoveAll(s.activeDir); err != nil {
		return fmt.Errorf("remove working copy: %w", err)
	}

	skeleton := filepath.Join(s.templatesDir, eff.MinecraftVersion())
	s.logger.Info("copying skeleton", "minecraft", eff.MinecraftVersion())
	if err := copyTree(skeleton, s.activeDir); err != nil {
		return fmt.Errorf("copy skeleton from %s to %s: %w", skeleton, s.activeDir, err)
	}

	s.logger.Info("accepting the EULA")
	if err := s.writeFile(eulaPath, "eula=true"); err != nil {
		return err
	}

	s.logger.Info("adding dependencies")
	main, err := s.MainDependency(ctx, eff)
	if err != nil {
		return err
	}
	appendix := gradleAppendix(s.modrinthMaven, main, eff.Dependencies)
	if err := appendFile(filepath.Join(s.activeDir, buildFile), appendix); err != nil {
		return fmt.Errorf("update %s: %w", buildFile, err)
	}
	return nil
}

// MainDependency returns the gradle dependency notation of the mod itself,
// downloading its jar into the working copy when it cannot be resolved from
// a maven repository.
func (s *Stager) MainDependency(ctx context.Context, eff *resolve.Effective) (string, error) {
	mod := eff.Mod
	src := eff.Source()
	switch src.Kind {
	case modspec.SourceModrinth:
		if src.Filename == "" {
			return fmt.Sprintf("'maven.modrinth:%s:%s'", mod.Slug, src.Version), nil
		}
		// The maven only serves the primary file under its canonical name.
		return s.download(ctx, s.fetcher.ModrinthMavenURL(mod.Slug, src.Version, src.Filename))
	case modspec.SourceCurseForge:
		return fmt.Sprintf("'curse.maven:%s-%d:%d'", mod.Slug, mod.ProjectID, src.FileID), nil
	case modspec.SourceGitHub:
		return s.download(ctx, s.fetcher.GitHubAssetURL(mod.Repo, src.Tag, src.Asset))
	default:
		return "", fmt.Errorf("unknown source type %q", src.Kind)
	}
}

func (s *Stager) download(ctx context.Context, url string) (string, error) {
	s.logger.Info("downloading jar", "url", url)
	if err := s.fetcher.Download(ctx, url, filepath.Join(s.activeDir, filepath.FromSlash(LocalJarPath))); err != nil {
		return "", fmt.Errorf("download mod jar: %w", err)
	}
	return localJarID, nil
}

func (s *Stager) writeFile(rel, content string) error {
	path := filepath.Join(s.activeDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(rel), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
