// SPDX-License-Identifier: MPL-2.0

package supervise

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/RubixDev/carpet-database/internal/modspec"
)

func writeWrapper(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("gradle wrapper stub is a POSIX shell script")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gradlew"), []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	dir := writeWrapper(t, `echo "task=$1"
echo "line two"
echo "warning" >&2
mkdir -p run && echo '[]' > run/rules.json
`)

	var out bytes.Buffer
	s := New(&out, NewWindow(false), nil)
	transcript, err := s.Run(context.Background(), dir, modspec.RunModeServer)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []string{"task=runServer", "line two"}; !slices.Equal(transcript.Stdout, want) {
		t.Errorf("stdout = %v, want %v", transcript.Stdout, want)
	}
	if transcript.Stderr != "warning\n" {
		t.Errorf("stderr = %q", transcript.Stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "run", "rules.json")); err != nil {
		t.Errorf("wrapper should run inside the project dir: %v", err)
	}

	printed := out.String()
	if !strings.HasPrefix(printed, "task=runServer\nline two\n") {
		t.Errorf("non-interactive output should mirror stdout first, got %q", printed)
	}
	if !strings.Contains(printed, "STDERR") || !strings.Contains(printed, "warning") {
		t.Errorf("non-interactive output should include stderr after exit, got %q", printed)
	}
}

func TestRun_ClientTask(t *testing.T) {
	t.Parallel()

	dir := writeWrapper(t, `echo "$1"`)
	transcript, err := New(&bytes.Buffer{}, NewWindow(false), nil).Run(context.Background(), dir, modspec.RunModeClient)
	if err != nil {
		t.Fatal(err)
	}
	if len(transcript.Stdout) != 1 || transcript.Stdout[0] != "runClient" {
		t.Errorf("stdout = %v", transcript.Stdout)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	t.Parallel()

	dir := writeWrapper(t, `echo "building"
echo "boom" >&2
exit 3
`)

	var out bytes.Buffer
	s := New(&out, Window{Size: 2, Interactive: true}, nil)
	transcript, err := s.Run(context.Background(), dir, modspec.RunModeServer)

	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("Run() error = %v, want *BuildError", err)
	}
	if buildErr.ExitCode != 3 || buildErr.Task != "runServer" {
		t.Errorf("unexpected build error: %v", buildErr)
	}
	if buildErr.Transcript != transcript || transcript.Stderr != "boom\n" {
		t.Errorf("transcript not attached: %+v", buildErr.Transcript)
	}
	if strings.Contains(out.String(), "boom") {
		t.Error("interactive runs should suppress stderr until a dump")
	}

	out.Reset()
	s.Dump(transcript)
	dumped := out.String()
	if !strings.Contains(dumped, "building") || !strings.Contains(dumped, "boom") {
		t.Errorf("dump should contain stdout and stderr, got %q", dumped)
	}
}

func TestRun_MissingWrapper(t *testing.T) {
	t.Parallel()

	_, err := New(&bytes.Buffer{}, NewWindow(false), nil).Run(context.Background(), t.TempDir(), modspec.RunModeServer)
	if err == nil {
		t.Fatal("expected error when gradlew is missing")
	}
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		t.Error("a failure to start is not a build error")
	}
}

func TestDump_NonInteractiveIsNoop(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	New(&out, NewWindow(false), nil).Dump(&Transcript{Stdout: []string{"x"}, Stderr: "y"})
	if out.Len() != 0 {
		t.Errorf("non-interactive dump wrote %q", out.String())
	}
}
