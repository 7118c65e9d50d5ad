// SPDX-License-Identifier: MPL-2.0

package consolidate

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/RubixDev/carpet-database/internal/atomicfile"
	"github.com/RubixDev/carpet-database/internal/modspec"
)

// CombinedFile is the name of the consolidated dataset inside the data directory.
const CombinedFile = "combined.json"

// Write stores the consolidated dataset in dataDir and the statistics report
// at statsPath.
func Write(dataDir, statsPath string, rules []modspec.Rule, stats Stats) error {
	if rules == nil {
		rules = []modspec.Rule{}
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode combined rules: %w", err)
	}
	if err := atomicfile.Write(filepath.Join(dataDir, CombinedFile), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", CombinedFile, err)
	}
	if err := atomicfile.Write(statsPath, []byte(stats.Markdown()), 0o644); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	return nil
}
