// SPDX-License-Identifier: MPL-2.0

// Package skeleton generates the per-Minecraft-version template mods that
// extraction builds are staged from.
//
// Generation clones the fabricmc.net generator, replaces its vite config so
// only the generator library is built, builds it with deno and then runs the
// generator script for every requested Minecraft version. The commands run
// through the embedded mvdan/sh interpreter so they behave the same on every
// platform that has git and deno on PATH.
package skeleton

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RubixDev/carpet-database/internal/issue"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ViteConfigPath is the generator's build config, relative to the clone.
const ViteConfigPath = "scripts/vite.config.js"

// viteConfig restricts the generator build to its library entry point, which
// avoids installing the website's dependencies.
const viteConfig = `
export default {
  build: {
    sourcemap: false,
    minify: false,
    outDir: './dist',
    emptyOutDir: true,
    lib: {
      entry: './src/lib.ts',
      fileName: 'fabric-template-generator',
      name: 'fabric-template-generator',
      formats: ['es'],
    },
  },
}`

const (
	cloneScript    = `git clone "$1" "$2"`
	buildLibScript = `deno task buildLib`
	generateScript = `deno run -A "$@"`
)

// ErrCommandFailed is wrapped by CommandError.
var ErrCommandFailed = errors.New("generator command failed")

type (
	// Generator prepares template mods under the workspace.
	Generator struct {
		workspace string
		cloneDir  string
		repo      string
		script    string
		stdout    io.Writer
		stderr    io.Writer
		logger    *log.Logger
		handlers  []func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc
	}

	// Option configures a Generator.
	Option func(*Generator)

	// CommandError reports a generator step that exited non-zero.
	CommandError struct {
		Script   string
		Dir      string
		ExitCode int
	}
)

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%q in %s exited with status %d", e.Script, e.Dir, e.ExitCode)
}

// Unwrap returns ErrCommandFailed for errors.Is() compatibility.
func (e *CommandError) Unwrap() error { return ErrCommandFailed }

// WithOutput sets where command output is written. Defaults to discarding it.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(g *Generator) {
		g.stdout = stdout
		g.stderr = stderr
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *log.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger.WithPrefix("skeleton")
		}
	}
}

// WithExecHandlers installs interpreter middlewares in front of the default
// process executor.
func WithExecHandlers(handlers ...func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc) Option {
	return func(g *Generator) {
		g.handlers = append(g.handlers, handlers...)
	}
}

// New creates a generator that clones repo into cloneDir and runs script
// (relative to workspace) to produce the template mods.
func New(workspace, cloneDir, repo, script string, opts ...Option) *Generator {
	g := &Generator{
		workspace: workspace,
		cloneDir:  cloneDir,
		repo:      repo,
		script:    script,
		stdout:    io.Discard,
		stderr:    io.Discard,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a template mod for every version, typically
// modspec.MinecraftVersions of the mods being extracted. An existing clone is
// reused; the vite config and library build are always refreshed.
func (g *Generator) Generate(ctx context.Context, versions []string) error {
	if len(versions) == 0 {
		g.logger.Debug("no Minecraft versions requested, skipping")
		return nil
	}

	if err := g.generate(ctx, versions); err != nil {
		return issue.NewErrorContext().
			WithIssue(issue.SkeletonGenerationFailedId).
			WithOperation("generate template mods").
			WithResource(strings.Join(versions, ", ")).
			WithSuggestion("Make sure git and deno are installed and on PATH").
			WithSuggestion("Delete the generator clone to force a fresh checkout").
			Wrap(err).
			BuildError()
	}
	return nil
}

func (g *Generator) generate(ctx context.Context, versions []string) error {
	g.logger.Info("preparing the tmp directory")
	if err := os.MkdirAll(filepath.Dir(g.cloneDir), 0o755); err != nil {
		return fmt.Errorf("create tmp directory: %w", err)
	}

	g.logger.Info("cloning the generator source", "repo", g.repo)
	if isDir(g.cloneDir) {
		g.logger.Info("directory already exists, skipping clone", "dir", g.cloneDir)
	} else if err := g.run(ctx, g.workspace, cloneScript, g.repo, g.cloneDir); err != nil {
		return err
	}

	g.logger.Info("editing the vite config")
	viteRoot := filepath.Join(g.cloneDir, filepath.Dir(ViteConfigPath))
	if err := os.MkdirAll(viteRoot, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", viteRoot, err)
	}
	if err := os.WriteFile(filepath.Join(g.cloneDir, ViteConfigPath), []byte(viteConfig), 0o644); err != nil {
		return fmt.Errorf("write vite config: %w", err)
	}

	g.logger.Info("building the generator lib")
	if err := g.run(ctx, viteRoot, buildLibScript); err != nil {
		return err
	}

	g.logger.Info("generating the template mods", "versions", len(versions))
	args := append([]string{g.script}, versions...)
	return g.run(ctx, g.workspace, generateScript, args...)
}

// run interprets script in dir with params bound to $1, $2, ...
func (g *Generator) run(ctx context.Context, dir, script string, params ...string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "skeleton")
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, g.stdout, g.stderr),
		interp.ExecHandlers(g.handlers...),
	}
	// "--" keeps arguments starting with a dash from being read as shell options.
	if len(params) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, params...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	g.logger.Debug("running", "script", script, "dir", dir, "args", params)
	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &CommandError{Script: script, Dir: dir, ExitCode: int(exitStatus)}
		}
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
