// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit settings loading inputs.
type LoadOptions struct {
	// Workspace is the project root; relative paths resolve against it.
	// Defaults to the working directory.
	Workspace string
	// ConfigFilePath forces loading from a specific settings file when set.
	ConfigFilePath string
	// EnvFile overrides the default <workspace>/.env. An explicit file must exist.
	EnvFile string
}

// Provider loads settings from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Settings, error)
}

type fileProvider struct{}

// NewProvider creates a settings provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads settings from the requested sources.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	s, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return s, nil
}
