// SPDX-License-Identifier: MPL-2.0

// Package config loads carpetdb settings using Viper.
//
// Settings come from, in increasing precedence: built-in defaults, an optional
// settings file (carpetdb.cue validated against an embedded CUE schema, or
// carpetdb.toml/.yaml/.json read by Viper), a workspace .env file, and
// CARPETDB_* environment variables. GITHUB_TOKEN is honored as a fallback for
// github.token. Relative paths are resolved against the workspace.
package config
