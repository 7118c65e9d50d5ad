// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/RubixDev/carpet-database/internal/issue"
	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/probe"
	"github.com/RubixDev/carpet-database/internal/registry"
	"github.com/RubixDev/carpet-database/internal/resolve"
	"github.com/RubixDev/carpet-database/internal/staging"
	"github.com/RubixDev/carpet-database/internal/supervise"
)

// extract stages, builds and reads the rules of one pair. Rules come back
// normalized and sorted by name.
func (r *Runner) extract(ctx context.Context, eff *resolve.Effective) ([]modspec.RawRule, error) {
	// Synthesis is pure, so configuration errors surface before the
	// previous working copy is thrown away.
	p, err := probe.Synthesize(eff)
	if err != nil {
		return nil, err
	}

	if err := r.stager.Stage(ctx, eff); err != nil {
		return nil, err
	}
	dir := r.stager.Dir()

	r.logger.Info("writing printer class", "printer", eff.PrinterVersion())
	if err := probe.Apply(dir, p); err != nil {
		return nil, err
	}

	r.logger.Info("running extraction", "task", eff.RunMode.Value.Task())
	transcript, err := r.builder.Run(ctx, dir, eff.RunMode.Value)
	if err != nil {
		r.builder.Dump(transcript)
		return nil, err
	}

	rules, err := readRules(filepath.Join(dir, filepath.FromSlash(staging.RulesPath)))
	if err != nil {
		r.builder.Dump(transcript)
		return nil, err
	}
	return rules, nil
}

func readRules(path string) ([]modspec.RawRule, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoOutput
	}
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var rules []modspec.RawRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse %s: %w", staging.RulesPath, err)
	}
	if len(rules) == 0 {
		return nil, ErrEmptyRules
	}
	for i := range rules {
		rules[i].Normalize()
	}
	slices.SortStableFunc(rules, func(a, b modspec.RawRule) int { return strings.Compare(a.Name, b.Name) })
	return rules, nil
}

func issueFor(err error) (issue.Id, bool) {
	var statusErr *registry.StatusError
	var buildErr *supervise.BuildError
	switch {
	case errors.Is(err, ErrStale):
		return issue.StaleCacheId, true
	case errors.As(err, &buildErr), errors.Is(err, ErrNoOutput), errors.Is(err, ErrEmptyRules):
		return issue.BuildFailedId, true
	case errors.As(err, &statusErr):
		return issue.DownloadFailedId, true
	case errors.Is(err, probe.ErrInvalidLocator), errors.Is(err, probe.ErrLocatorRequired):
		return issue.InvalidLocatorId, true
	case errors.Is(err, resolve.ErrNoSettingsClasses):
		return issue.MissingSettingsClassesId, true
	default:
		return 0, false
	}
}

func suggestionsFor(err error) []string {
	switch {
	case errors.Is(err, ErrStale):
		return []string{"Run 'carpetdb' without arguments to extract outdated pairs first"}
	case errors.Is(err, ErrNoOutput), errors.Is(err, ErrEmptyRules):
		return []string{
			"Check that settings_classes names the classes holding the rules",
			"Check that the run mode matches the environment the mod loads in",
		}
	default:
		return nil
	}
}
