// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/RubixDev/carpet-database/internal/cache"
	"github.com/RubixDev/carpet-database/internal/config"
	"github.com/RubixDev/carpet-database/internal/consolidate"
	"github.com/RubixDev/carpet-database/internal/issue"
	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/pipeline"
	"github.com/RubixDev/carpet-database/internal/registry"
	"github.com/RubixDev/carpet-database/internal/skeleton"
	"github.com/RubixDev/carpet-database/internal/staging"
	"github.com/RubixDev/carpet-database/internal/supervise"
	"github.com/RubixDev/carpet-database/internal/update"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
)

// runParams carries everything a task needs; nothing is read from globals.
type runParams struct {
	stdout       io.Writer
	stderr       io.Writer
	interactive  bool
	flags        rootFlags
	task         task
	githubOutput string
}

func run(ctx context.Context, p runParams) error {
	logger := newLogger(p.stderr, p.flags.verbose)

	settings, err := config.NewProvider().Load(ctx, config.LoadOptions{
		Workspace:      p.flags.workspace,
		ConfigFilePath: p.flags.configFile,
	})
	if err != nil {
		return err
	}
	logger.Debug("settings loaded", "workspace", settings.Workspace)

	modsPath := settings.ModsPath()
	if p.flags.modsFile != "" {
		modsPath = p.flags.modsFile
	}
	doc, err := modspec.Load(modsPath)
	if err != nil {
		return issue.NewErrorContext().
			WithIssue(issue.InvalidModsDocumentId).
			WithOperation("load mods document").
			WithResource(modsPath).
			WithSuggestion("Fix the field named in the message and run again").
			Wrap(err).
			BuildError()
	}
	logger.Debug("mods document loaded", "path", modsPath, "mods", len(doc.Mods))

	switch p.task.kind {
	case taskMatrix:
		if err := appendMatrix(p.githubOutput, doc.Mods); err != nil {
			return issue.WrapWithOperation(err, "write CI matrix")
		}
		logger.Info("wrote CI matrix", "mods", len(doc.Mods))
		return nil
	case taskUpdate:
		return runUpdate(ctx, p, newRegistryClient(settings), doc.Mods, logger)
	default:
		return runExtract(ctx, p, settings, doc, logger)
	}
}

func runUpdate(ctx context.Context, p runParams, reg update.Registry, mods []modspec.Mod, logger *log.Logger) error {
	results, err := update.NewChecker(reg, logger).Check(ctx, mods)
	update.Report(p.stdout, results)
	if err != nil {
		return issue.NewErrorContext().
			WithIssue(issue.DownloadFailedId).
			WithOperation("check for updates").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(p.stdout, summaryLine(update.Summary(results)))
	return nil
}

// summaryLine renders the update counts. Non-zero outdated and not-found
// counts use the warning style.
func summaryLine(counts map[update.Status]int) string {
	count := func(status update.Status) string {
		n := counts[status]
		if n > 0 && status != update.StatusUpToDate {
			return WarningStyle.Render(strconv.Itoa(n))
		}
		return CountStyle.Render(strconv.Itoa(n))
	}
	return fmt.Sprintf("%s %s outdated, %s not found, %s up to date",
		SubtitleStyle.Render("summary:"),
		count(update.StatusOutdated),
		count(update.StatusNotFound),
		count(update.StatusUpToDate))
}

func runExtract(ctx context.Context, p runParams, settings *config.Settings, doc *modspec.Document, logger *log.Logger) error {
	plan := pipeline.Plan{Mode: pipeline.ModeAll}
	generateFor := doc.Mods
	switch p.task.kind {
	case taskCombine:
		plan.Mode = pipeline.ModeCombineOnly
		generateFor = nil
	case taskMod:
		plan = pipeline.Plan{Mode: pipeline.ModeSingle, Slug: p.task.slug}
		generateFor = nil
		if mod, ok := doc.Find(p.task.slug); ok {
			generateFor = []modspec.Mod{*mod}
		}
	}

	if len(generateFor) > 0 {
		fmt.Fprintln(p.stdout, TitleStyle.Render(">>> generating template mods for all Minecraft versions"))
		gen := skeleton.New(settings.Workspace, settings.GeneratorDir(),
			settings.Skeleton.GeneratorRepo, settings.Skeleton.GeneratorScript,
			skeleton.WithOutput(p.stdout, p.stderr),
			skeleton.WithLogger(logger))
		if err := gen.Generate(ctx, modspec.MinecraftVersions(generateFor)); err != nil {
			return err
		}
	}

	client := newRegistryClient(settings)
	stager := staging.New(settings.TemplatesDir(), settings.ActiveDir(), client,
		staging.WithModrinthMaven(settings.Registry.ModrinthMaven),
		staging.WithLogger(logger))
	window := supervise.Window{Size: settings.WindowLines, Interactive: p.interactive}
	builder := supervise.New(p.stdout, window, logger)
	store := cache.NewStore(settings.DataPath(), logger)

	runner := pipeline.New(store, stager, builder,
		pipeline.WithOutput(p.stdout),
		pipeline.WithLogger(logger))

	outputs, err := runner.Run(ctx, doc.Mods, plan)
	if err != nil {
		return err
	}

	_, stats, err := runner.Combine(outputs, settings.DataPath(), settings.StatsPath())
	if err != nil {
		return err
	}
	printSummary(p.stdout, stats, p.interactive)
	return nil
}

func newRegistryClient(s *config.Settings) *registry.Client {
	return registry.NewClient(
		registry.WithModrinthAPI(s.Registry.ModrinthAPI),
		registry.WithModrinthMaven(s.Registry.ModrinthMaven),
		registry.WithCFWidgetAPI(s.Registry.CFWidgetAPI),
		registry.WithGitHubDownload(s.Registry.GitHubDownload),
		registry.WithGitHubToken(s.GitHub.Token),
		registry.WithUserAgent(s.HTTP.UserAgent+"/"+Version),
		registry.WithTimeout(s.HTTP.Timeout),
	)
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// printSummary renders the statistics report on terminals and prints a plain
// summary otherwise.
func printSummary(w io.Writer, stats consolidate.Stats, interactive bool) {
	if interactive {
		if rendered, err := glamour.Render(stats.Markdown(), "auto"); err == nil {
			fmt.Fprint(w, rendered)
			return
		}
	}

	fmt.Fprintln(w, SuccessStyle.Render("Rules parsed: ")+CountStyle.Render(strconv.Itoa(stats.Total)))
	fmt.Fprintln(w, SubtitleStyle.Render("per mod:"))
	for _, c := range stats.ByMod {
		fmt.Fprintf(w, "  %s: %d\n", c.Key, c.Count)
	}
	fmt.Fprintln(w, SubtitleStyle.Render("per version:"))
	for _, c := range stats.ByVersion {
		fmt.Fprintf(w, "  %s: %d\n", c.Key, c.Count)
	}
}
