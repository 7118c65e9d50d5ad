// SPDX-License-Identifier: MPL-2.0

package supervise

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/RubixDev/carpet-database/internal/modspec"
)

// maxLineBytes bounds a single line of build output.
const maxLineBytes = 1 << 20

var (
	stderrHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	failHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

type (
	// Transcript is the complete output of one run.
	Transcript struct {
		Stdout []string
		Stderr string
	}

	// BuildError is returned when the game exits unsuccessfully.
	BuildError struct {
		Task       string
		ExitCode   int
		Err        error
		Transcript *Transcript
	}

	// Supervisor runs the gradle wrapper of a staged project.
	Supervisor struct {
		out    io.Writer
		window Window
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Task, e.ExitCode)
}

// Unwrap returns the underlying process error.
func (e *BuildError) Unwrap() error { return e.Err }

// New creates a Supervisor mirroring output to out through window.
func New(out io.Writer, window Window, logger *log.Logger) *Supervisor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Supervisor{out: out, window: window, logger: logger.WithPrefix("supervise")}
}

// Run starts <dir>/gradlew with the task of mode and waits for it to exit.
// The returned transcript is complete even when an error is returned for a
// non-zero exit, which is reported as a *BuildError.
func (s *Supervisor) Run(ctx context.Context, dir string, mode modspec.RunMode) (*Transcript, error) {
	task := mode.Task()
	cmd := exec.CommandContext(ctx, filepath.Join(dir, "gradlew"), task)
	cmd.Dir = dir

	// exec drains stderr on its own goroutine; the buffer is read only after Wait.
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe stdout: %w", err)
	}

	s.logger.Debug("starting build", "dir", dir, "task", task)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", task, err)
	}

	transcript := &Transcript{}
	s.write(s.window.Begin())

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		transcript.Stdout = append(transcript.Stdout, scanner.Text())
		s.write(s.window.Frame(transcript.Stdout))
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()
	transcript.Stderr = stderr.String()

	s.write(s.window.End())
	if !s.window.Interactive {
		s.write(stderrHeader.Render("------ STDERR ------") + "\n" + transcript.Stderr + "\n")
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return transcript, &BuildError{Task: task, ExitCode: exitErr.ExitCode(), Err: waitErr, Transcript: transcript}
		}
		return transcript, fmt.Errorf("wait for %s: %w", task, waitErr)
	}
	if scanErr != nil {
		return transcript, fmt.Errorf("read %s output: %w", task, scanErr)
	}
	return transcript, nil
}

// Dump writes the full transcript after a failure. Non-interactive runs have
// already mirrored everything, so only interactive runs print it again.
func (s *Supervisor) Dump(t *Transcript) {
	if t == nil || !s.window.Interactive {
		return
	}
	DumpTranscript(s.out, t)
}

// DumpTranscript writes the complete stdout and stderr of t to w.
func DumpTranscript(w io.Writer, t *Transcript) {
	var b strings.Builder
	b.WriteString(failHeader.Render("------ STDOUT ------"))
	b.WriteByte('\n')
	b.WriteString(strings.Join(t.Stdout, "\n"))
	b.WriteByte('\n')
	b.WriteString(failHeader.Render("------ STDERR ------"))
	b.WriteByte('\n')
	b.WriteString(t.Stderr)
	b.WriteByte('\n')
	_, _ = io.WriteString(w, b.String())
}

func (s *Supervisor) write(text string) {
	if text == "" {
		return
	}
	_, _ = io.WriteString(s.out, text)
}
