// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RubixDev/carpet-database/internal/cache"
	"github.com/RubixDev/carpet-database/internal/consolidate"
	"github.com/RubixDev/carpet-database/internal/issue"
	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/resolve"
	"github.com/RubixDev/carpet-database/internal/supervise"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	// ModeAll extracts every stale pair.
	ModeAll Mode = iota
	// ModeCombineOnly never extracts; any stale pair is an error.
	ModeCombineOnly
	// ModeSingle extracts stale pairs of one mod only. Other mods contribute
	// their fresh cache records and stale ones are left out.
	ModeSingle
)

var (
	// ErrStale is returned in combine-only mode when a pair needs extraction.
	ErrStale = errors.New("cannot combine with outdated data")
	// ErrNoOutput is returned when a build finished without writing rules.
	ErrNoOutput = errors.New("no output rules file found")
	// ErrEmptyRules is returned when a build wrote an empty rules list.
	ErrEmptyRules = errors.New("extracted rules list is empty")
	// ErrUnknownMod is returned when ModeSingle names a slug that is not in
	// the document.
	ErrUnknownMod = errors.New("unknown mod")
)

var (
	modHeadline     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	versionHeadline = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
)

type (
	// Mode selects which pairs may be extracted.
	Mode int

	// Plan selects what a run does. Slug is required for ModeSingle.
	Plan struct {
		Mode Mode
		Slug string
	}

	// Cache is the fingerprinted rule store.
	Cache interface {
		Lookup(slug string, major modspec.MajorVersion, fp uint64) ([]modspec.RawRule, bool)
		Save(slug string, major modspec.MajorVersion, fp uint64, rules []modspec.RawRule) error
	}

	// Stager recreates the working copy for a pair.
	Stager interface {
		Stage(ctx context.Context, eff *resolve.Effective) error
		Dir() string
	}

	// Builder runs the staged project and reports its output.
	Builder interface {
		Run(ctx context.Context, dir string, mode modspec.RunMode) (*supervise.Transcript, error)
		Dump(t *supervise.Transcript)
	}

	// Runner executes plans against its collaborators.
	Runner struct {
		cache   Cache
		stager  Stager
		builder Builder
		out     io.Writer
		logger  *log.Logger
	}

	// Option configures a Runner.
	Option func(*Runner)
)

// WithOutput sets where headlines are written. Defaults to discarding them.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger.WithPrefix("pipeline")
		}
	}
}

// New creates a Runner.
func New(cache Cache, stager Stager, builder Builder, opts ...Option) *Runner {
	r := &Runner{
		cache:   cache,
		stager:  stager,
		builder: builder,
		out:     io.Discard,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeCombineOnly:
		return "combine"
	case ModeSingle:
		return "single"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Run processes every pair of mods in document order and returns one output
// per pair that has rules. The first failing pair aborts the run.
func (r *Runner) Run(ctx context.Context, mods []modspec.Mod, plan Plan) ([]consolidate.Output, error) {
	if plan.Mode == ModeSingle && !containsSlug(mods, plan.Slug) {
		return nil, issue.NewErrorContext().
			WithOperation("select mod").
			WithResource(plan.Slug).
			WithSuggestion("Use a slug from the mods document, e.g. 'mod:carpet-extra'").
			Wrap(fmt.Errorf("%w %q", ErrUnknownMod, plan.Slug)).
			BuildError()
	}

	var outputs []consolidate.Output
	for i := range mods {
		mod := &mods[i]
		selected := plan.Mode != ModeSingle || mod.Slug == plan.Slug
		if selected {
			r.headline(modHeadline, modBanner(mod.Name))
		}

		for _, entry := range mod.OrderedVersions() {
			if err := ctx.Err(); err != nil {
				return outputs, err
			}
			out, ok, err := r.runPair(ctx, mod, entry, plan.Mode, selected)
			if err != nil {
				return outputs, r.wrap(err, mod, entry)
			}
			if ok {
				outputs = append(outputs, out)
			}
		}
	}
	return outputs, nil
}

// runPair reports ok=false when a stale pair was skipped.
func (r *Runner) runPair(ctx context.Context, mod *modspec.Mod, entry modspec.VersionEntry, mode Mode, selected bool) (consolidate.Output, bool, error) {
	eff, err := resolve.Resolve(mod, entry.Major)
	if err != nil {
		return consolidate.Output{}, false, err
	}
	fp := cache.Fingerprint(eff)

	if selected {
		r.headline(versionHeadline, fmt.Sprintf(">>> getting rules for '%s' for Minecraft %s using %s with printer %s",
			mod.Name, entry.Major, eff.MinecraftVersion(), eff.PrinterVersion()))
	}

	if rules, ok := r.cache.Lookup(mod.Slug, entry.Major, fp); ok {
		r.logger.Info("data already up-to-date, skipping extraction", "mod", mod.Slug, "major", entry.Major)
		return output(eff, rules), true, nil
	}

	switch {
	case mode == ModeCombineOnly:
		return consolidate.Output{}, false, ErrStale
	case !selected:
		r.logger.Warn("skipping outdated data of unselected mod", "mod", mod.Slug, "major", entry.Major)
		return consolidate.Output{}, false, nil
	}

	rules, err := r.extract(ctx, eff)
	if err != nil {
		return consolidate.Output{}, false, err
	}

	r.logger.Info("saving output", "mod", mod.Slug, "major", entry.Major, "rules", len(rules))
	if err := r.cache.Save(mod.Slug, entry.Major, fp, rules); err != nil {
		return consolidate.Output{}, false, err
	}
	return output(eff, rules), true, nil
}

func output(eff *resolve.Effective, rules []modspec.RawRule) consolidate.Output {
	return consolidate.Output{
		ModName:    eff.Mod.Name,
		ModSlug:    eff.Mod.Slug,
		ModURL:     eff.ModURL,
		Major:      eff.Major,
		VersionURL: eff.VersionURL,
		Rules:      rules,
	}
}

// wrap attaches the failing pair and, where one applies, a catalog entry.
func (r *Runner) wrap(err error, mod *modspec.Mod, entry modspec.VersionEntry) error {
	ctx := issue.NewErrorContext().
		WithOperation("extract rules").
		WithResource(fmt.Sprintf("%s (Minecraft %s)", mod.Name, entry.Major))
	if id, ok := issueFor(err); ok {
		ctx = ctx.WithIssue(id)
	}
	for _, s := range suggestionsFor(err) {
		ctx = ctx.WithSuggestion(s)
	}
	return ctx.Wrap(err).BuildError()
}

func (r *Runner) headline(style lipgloss.Style, text string) {
	_, _ = fmt.Fprintln(r.out, style.Render(text))
}

func modBanner(name string) string {
	bar := strings.Repeat("-", 50)
	return fmt.Sprintf("%s\n>>> getting rules for '%s' <<<\n%s", bar, name, bar)
}

func containsSlug(mods []modspec.Mod, slug string) bool {
	for i := range mods {
		if mods[i].Slug == slug {
			return true
		}
	}
	return false
}
