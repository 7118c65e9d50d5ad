// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/RubixDev/carpet-database/internal/registry"
	"github.com/RubixDev/carpet-database/internal/supervise"
)

const (
	// SettingsFileName is the base name of the optional settings file.
	SettingsFileName = "carpetdb"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CARPETDB"

	// DefaultGeneratorRepo hosts the template mod generator.
	DefaultGeneratorRepo = "https://github.com/FabricMC/fabricmc.net"
	// DefaultGeneratorScript drives the generator library, relative to the
	// workspace.
	DefaultGeneratorScript = "gen_template_mods.ts"
	// DefaultUserAgent identifies requests to the registries.
	DefaultUserAgent = "RubixDev/carpet-database"
	// DefaultHTTPTimeout bounds a single registry request.
	DefaultHTTPTimeout = 30 * time.Second
)

// ErrInvalidSettings is the sentinel error wrapped by InvalidSettingsError.
var ErrInvalidSettings = errors.New("invalid settings")

type (
	// Settings is the fully resolved application configuration. It is built
	// once in main and passed explicitly to every component.
	Settings struct {
		Workspace   string           `json:"workspace" mapstructure:"workspace"`
		DataDir     string           `json:"data_dir" mapstructure:"data_dir"`
		TmpDir      string           `json:"tmp_dir" mapstructure:"tmp_dir"`
		ModsFile    string           `json:"mods_file" mapstructure:"mods_file"`
		StatsFile   string           `json:"stats_file" mapstructure:"stats_file"`
		WindowLines int              `json:"window_lines" mapstructure:"window_lines"`
		HTTP        HTTPSettings     `json:"http" mapstructure:"http"`
		GitHub      GitHubSettings   `json:"github" mapstructure:"github"`
		Skeleton    SkeletonSettings `json:"skeleton" mapstructure:"skeleton"`
		Registry    RegistrySettings `json:"registry" mapstructure:"registry"`
	}

	// HTTPSettings configures the registry HTTP client.
	HTTPSettings struct {
		UserAgent string        `json:"user_agent" mapstructure:"user_agent"`
		Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// GitHubSettings holds the optional token used for release downloads.
	GitHubSettings struct {
		Token string `json:"token" mapstructure:"token"`
	}

	// SkeletonSettings locates the template mod generator.
	SkeletonSettings struct {
		GeneratorRepo   string `json:"generator_repo" mapstructure:"generator_repo"`
		GeneratorScript string `json:"generator_script" mapstructure:"generator_script"`
	}

	// RegistrySettings overrides the remote endpoints.
	RegistrySettings struct {
		ModrinthAPI    string `json:"modrinth_api" mapstructure:"modrinth_api"`
		ModrinthMaven  string `json:"modrinth_maven" mapstructure:"modrinth_maven"`
		CFWidgetAPI    string `json:"cfwidget_api" mapstructure:"cfwidget_api"`
		GitHubDownload string `json:"github_download" mapstructure:"github_download"`
	}

	// InvalidSettingsError names the offending key.
	InvalidSettingsError struct {
		Key    string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("invalid setting %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrInvalidSettings for errors.Is() compatibility.
func (e *InvalidSettingsError) Unwrap() error { return ErrInvalidSettings }

// DefaultSettings returns the settings used when nothing overrides them.
func DefaultSettings() *Settings {
	return &Settings{
		Workspace:   ".",
		DataDir:     "data",
		TmpDir:      "tmp",
		ModsFile:    "mods.toml",
		StatsFile:   "stats.md",
		WindowLines: supervise.DefaultWindowSize,
		HTTP: HTTPSettings{
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultHTTPTimeout,
		},
		Skeleton: SkeletonSettings{
			GeneratorRepo:   DefaultGeneratorRepo,
			GeneratorScript: DefaultGeneratorScript,
		},
		Registry: RegistrySettings{
			ModrinthAPI:    registry.DefaultModrinthAPI,
			ModrinthMaven:  registry.DefaultModrinthMaven,
			CFWidgetAPI:    registry.DefaultCFWidgetAPI,
			GitHubDownload: registry.DefaultGitHubDownload,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	required := []struct{ key, value string }{
		{"workspace", s.Workspace},
		{"data_dir", s.DataDir},
		{"tmp_dir", s.TmpDir},
		{"mods_file", s.ModsFile},
		{"stats_file", s.StatsFile},
		{"registry.modrinth_api", s.Registry.ModrinthAPI},
		{"registry.modrinth_maven", s.Registry.ModrinthMaven},
		{"registry.cfwidget_api", s.Registry.CFWidgetAPI},
		{"registry.github_download", s.Registry.GitHubDownload},
	}
	for _, r := range required {
		if r.value == "" {
			return &InvalidSettingsError{Key: r.key, Reason: "must not be empty"}
		}
	}
	if s.WindowLines < 1 {
		return &InvalidSettingsError{Key: "window_lines", Reason: fmt.Sprintf("must be positive, got %d", s.WindowLines)}
	}
	if s.HTTP.Timeout <= 0 {
		return &InvalidSettingsError{Key: "http.timeout", Reason: fmt.Sprintf("must be positive, got %s", s.HTTP.Timeout)}
	}
	return nil
}

// Path resolves p against the workspace unless it is already absolute.
func (s *Settings) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Workspace, p)
}

// DataPath is the directory holding cache records and combined.json.
func (s *Settings) DataPath() string { return s.Path(s.DataDir) }

// ModsPath is the plugin document.
func (s *Settings) ModsPath() string { return s.Path(s.ModsFile) }

// StatsPath is the generated statistics page.
func (s *Settings) StatsPath() string { return s.Path(s.StatsFile) }

// TemplatesDir holds one generated skeleton per Minecraft version.
func (s *Settings) TemplatesDir() string { return filepath.Join(s.Path(s.TmpDir), "templates") }

// ActiveDir is the single staging directory builds run in.
func (s *Settings) ActiveDir() string { return filepath.Join(s.Path(s.TmpDir), "active") }

// GeneratorDir is where the generator repository is cloned.
func (s *Settings) GeneratorDir() string { return filepath.Join(s.Path(s.TmpDir), "fabricmc.net") }
