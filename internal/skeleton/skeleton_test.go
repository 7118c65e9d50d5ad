// SPDX-License-Identifier: MPL-2.0

package skeleton

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/RubixDev/carpet-database/internal/issue"

	"mvdan.cc/sh/v3/interp"
)

type call struct {
	dir  string
	args []string
}

// recorder stands in for git and deno. A cloning git creates the target
// directory; fail makes the named program exit with status 3.
type recorder struct {
	mu    sync.Mutex
	calls []call
	fail  string
}

func (r *recorder) handler(_ interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		hc := interp.HandlerCtx(ctx)
		r.mu.Lock()
		r.calls = append(r.calls, call{dir: hc.Dir, args: slices.Clone(args)})
		r.mu.Unlock()

		if args[0] == r.fail {
			return interp.ExitStatus(3)
		}
		if args[0] == "git" && len(args) == 4 {
			return os.MkdirAll(filepath.Join(args[3], "scripts"), 0o755)
		}
		return nil
	}
}

func newTestGenerator(t *testing.T, rec *recorder) (*Generator, string) {
	t.Helper()
	workspace := t.TempDir()
	cloneDir := filepath.Join(workspace, "tmp", "fabricmc.net")
	g := New(workspace, cloneDir, "https://example.com/generator.git", "gen_template_mods.ts",
		WithExecHandlers(rec.handler))
	return g, cloneDir
}

func TestGenerate_FreshClone(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g, cloneDir := newTestGenerator(t, rec)

	if err := g.Generate(context.Background(), []string{"1.19.4", "1.20.4"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []call{
		{dir: g.workspace, args: []string{"git", "clone", "https://example.com/generator.git", cloneDir}},
		{dir: filepath.Join(cloneDir, "scripts"), args: []string{"deno", "task", "buildLib"}},
		{dir: g.workspace, args: []string{"deno", "run", "-A", "gen_template_mods.ts", "1.19.4", "1.20.4"}},
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %+v", len(rec.calls), len(want), rec.calls)
	}
	for i := range want {
		if rec.calls[i].dir != want[i].dir || !slices.Equal(rec.calls[i].args, want[i].args) {
			t.Errorf("call %d = %+v, want %+v", i, rec.calls[i], want[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(cloneDir, ViteConfigPath))
	if err != nil {
		t.Fatalf("read vite config: %v", err)
	}
	if string(data) != viteConfig {
		t.Errorf("vite config = %q", data)
	}
}

func TestGenerate_ReusesExistingClone(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g, cloneDir := newTestGenerator(t, rec)
	if err := os.MkdirAll(cloneDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := g.Generate(context.Background(), []string{"1.20.4"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, c := range rec.calls {
		if c.args[0] == "git" {
			t.Errorf("unexpected clone: %v", c.args)
		}
	}
	if len(rec.calls) != 2 {
		t.Errorf("got %d calls, want 2", len(rec.calls))
	}
	// The scripts directory is created when the existing clone lacks it.
	if _, err := os.Stat(filepath.Join(cloneDir, ViteConfigPath)); err != nil {
		t.Errorf("vite config not written: %v", err)
	}
}

func TestGenerate_NoVersions(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g, _ := newTestGenerator(t, rec)
	if err := g.Generate(context.Background(), nil); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("got %d calls, want none", len(rec.calls))
	}
}

func TestGenerate_CommandFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{fail: "deno"}
	g, _ := newTestGenerator(t, rec)

	err := g.Generate(context.Background(), []string{"1.20.4"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("error %v does not wrap ErrCommandFailed", err)
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a CommandError", err)
	}
	if ce.ExitCode != 3 || ce.Script != buildLibScript {
		t.Errorf("CommandError = %+v", ce)
	}
	if id, ok := issue.IssueOf(err); !ok || id != issue.SkeletonGenerationFailedId {
		t.Errorf("IssueOf() = %v, %v", id, ok)
	}
	// The generator script must not run after a failed build.
	if n := len(rec.calls); n != 2 {
		t.Errorf("got %d calls, want 2", n)
	}
}
