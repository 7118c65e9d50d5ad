// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"github.com/RubixDev/carpet-database/internal/consolidate"
	"github.com/RubixDev/carpet-database/internal/issue"
	"github.com/RubixDev/carpet-database/internal/modspec"
)

// Combine consolidates outputs, writes combined.json into dataDir and the
// statistics report to statsPath.
func (r *Runner) Combine(outputs []consolidate.Output, dataDir, statsPath string) ([]modspec.Rule, consolidate.Stats, error) {
	r.headline(modHeadline, ">>> combining rules of all mods")

	rules := consolidate.Merge(outputs)
	stats := consolidate.ComputeStats(rules)
	r.logger.Info("consolidated", "outputs", len(outputs), "rules", len(rules), "distinct", stats.Total)

	if err := consolidate.Write(dataDir, statsPath, rules, stats); err != nil {
		return nil, consolidate.Stats{}, issue.NewErrorContext().
			WithOperation("write combined data").
			WithResource(dataDir).
			Wrap(err).
			BuildError()
	}
	return rules, stats, nil
}
