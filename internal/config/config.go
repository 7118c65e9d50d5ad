// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/RubixDev/carpet-database/internal/issue"
	"github.com/RubixDev/carpet-database/pkg/cueutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed settings_schema.cue
var settingsSchema []byte

// lookupExts lists the settings file extensions probed in the workspace, in
// order.
var lookupExts = []string{"cue", "toml", "yaml", "json"}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*Settings, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	workspace := opts.Workspace
	if workspace == "" {
		workspace = "."
	}
	workspace, err := filepath.Abs(workspace)
	if err != nil {
		return nil, "", fmt.Errorf("resolve workspace: %w", err)
	}

	if err := loadDotEnv(workspace, opts.EnvFile); err != nil {
		return nil, "", err
	}

	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("workspace", workspace)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("tmp_dir", defaults.TmpDir)
	v.SetDefault("mods_file", defaults.ModsFile)
	v.SetDefault("stats_file", defaults.StatsFile)
	v.SetDefault("window_lines", defaults.WindowLines)
	v.SetDefault("http.user_agent", defaults.HTTP.UserAgent)
	v.SetDefault("http.timeout", defaults.HTTP.Timeout)
	v.SetDefault("github.token", defaults.GitHub.Token)
	v.SetDefault("skeleton.generator_repo", defaults.Skeleton.GeneratorRepo)
	v.SetDefault("skeleton.generator_script", defaults.Skeleton.GeneratorScript)
	v.SetDefault("registry.modrinth_api", defaults.Registry.ModrinthAPI)
	v.SetDefault("registry.modrinth_maven", defaults.Registry.ModrinthMaven)
	v.SetDefault("registry.cfwidget_api", defaults.Registry.CFWidgetAPI)
	v.SetDefault("registry.github_download", defaults.Registry.GitHubDownload)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The CI token is conventionally exported without a prefix.
	if err := v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, "", fmt.Errorf("bind github token: %w", err)
	}

	resolvedPath := ""

	// An explicit --config path must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("settings file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		for _, ext := range lookupExts {
			candidate := filepath.Join(workspace, SettingsFileName+"."+ext)
			if fileExists(candidate) {
				resolvedPath = candidate
				break
			}
		}
		// No settings file means defaults plus environment.
	}

	if resolvedPath != "" {
		if err := readSettingsFile(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(resolvedPath).
				WithSuggestion("Check the file syntax").
				WithSuggestion("Verify the values match the documented settings keys").
				Wrap(err).
				BuildError()
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, "", fmt.Errorf("failed to parse settings: %w", err)
	}
	if !filepath.IsAbs(s.Workspace) {
		s.Workspace = filepath.Join(workspace, s.Workspace)
	}

	if err := s.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate settings").
			WithResource(resolvedPath).
			WithSuggestion("Remove the override to fall back to the default").
			Wrap(err).
			BuildError()
	}

	return &s, resolvedPath, nil
}

// loadDotEnv loads envFile, or <workspace>/.env when envFile is empty.
// Variables already present in the environment win. A missing default file
// is not an error.
func loadDotEnv(workspace, envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = filepath.Join(workspace, ".env")
	}
	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return issue.NewErrorContext().
			WithOperation("load environment file").
			WithResource(envFile).
			WithSuggestion("Use KEY=value lines, one per variable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// readSettingsFile merges the settings file into v. CUE files are validated
// against the embedded #Settings schema; other formats are read by Viper.
func readSettingsFile(v *viper.Viper, path string) error {
	if filepath.Ext(path) != ".cue" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	// Optional fields only, so the result is partial.
	result, err := cueutil.ParseAndDecode[map[string]any](settingsSchema, data, "#Settings",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	// Merge preserves defaults and env overrides.
	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
