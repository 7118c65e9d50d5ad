// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RubixDev/carpet-database/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	taskExtract taskKind = iota
	taskCombine
	taskMod
	taskMatrix
	taskUpdate
)

// modPrefix selects a single mod: "mod:<slug>".
const modPrefix = "mod:"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"

	errEmptySlug = errors.New("missing slug after 'mod:'")
)

type (
	taskKind int

	// task is the parsed positional argument.
	task struct {
		kind taskKind
		slug string
	}

	rootFlags struct {
		verbose    bool
		configFile string
		modsFile   string
		workspace  string
	}
)

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "carpetdb [combine | mod:<slug> | get-matrix | update]",
		Short: "Extract and consolidate the rules of Carpet mods",
		Long: TitleStyle.Render("carpetdb") + SubtitleStyle.Render(" - Carpet rule database builder") + `

carpetdb builds every mod listed in the mods document against a generated
template mod, runs the game once to dump the mod's rules, and merges the
results of all mods and Minecraft versions into data/combined.json.

` + SubtitleStyle.Render("Tasks:") + `
  carpetdb                 Generate templates, extract outdated data, combine
  carpetdb combine         Combine cached data only; fails if any is outdated
  carpetdb mod:<slug>      Extract one mod, then combine
  carpetdb get-matrix      Append the CI job matrix to $GITHUB_OUTPUT
  carpetdb update          Check the registries for newer mod versions`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"combine", "get-matrix", "update"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTask(args)
			if err != nil {
				return err
			}

			p := runParams{
				stdout:       cmd.OutOrStdout(),
				stderr:       cmd.ErrOrStderr(),
				interactive:  isTerminal(cmd.OutOrStdout()),
				flags:        *flags,
				task:         t,
				githubOutput: os.Getenv("GITHUB_OUTPUT"),
			}
			if err := run(cmd.Context(), p); err != nil {
				reportError(p.stderr, err, flags.verbose)
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: 1, Err: err}
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "settings file (default is carpetdb.{cue,toml,yaml,json} in the workspace)")
	cmd.PersistentFlags().StringVar(&flags.modsFile, "mods", "", "mods document (default is mods.toml in the workspace)")
	cmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "C", "", "workspace directory (default is the working directory)")

	return cmd
}

// Execute runs the root command and exits with its status.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func parseTask(args []string) (task, error) {
	if len(args) == 0 {
		return task{kind: taskExtract}, nil
	}
	switch arg := args[0]; {
	case arg == "combine":
		return task{kind: taskCombine}, nil
	case arg == "get-matrix":
		return task{kind: taskMatrix}, nil
	case arg == "update":
		return task{kind: taskUpdate}, nil
	case strings.HasPrefix(arg, modPrefix):
		slug := strings.TrimPrefix(arg, modPrefix)
		if slug == "" {
			return task{}, errEmptySlug
		}
		return task{kind: taskMod, slug: slug}, nil
	default:
		return task{}, fmt.Errorf("unknown task %q (expected combine, mod:<slug>, get-matrix or update)", arg)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportError prints err and, in verbose mode, the catalog guidance linked to it.
func reportError(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	if !verbose {
		return
	}
	if id, ok := issue.IssueOf(err); ok {
		if entry := issue.Get(id); entry != nil {
			if rendered, renderErr := entry.Render("dark"); renderErr == nil {
				fmt.Fprint(w, rendered)
			}
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
