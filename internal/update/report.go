// SPDX-License-Identifier: MPL-2.0

package update

import (
	"fmt"
	"io"

	"github.com/RubixDev/carpet-database/internal/modspec"

	"github.com/charmbracelet/lipgloss"
)

var statusStyles = map[Status]lipgloss.Style{
	StatusUpToDate: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	StatusOutdated: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
	StatusNotFound: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	StatusSkipped:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
}

// curseForgeOutdated distinguishes CurseForge updates from Modrinth ones.
var curseForgeOutdated = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))

// Report writes one styled line per result.
func Report(w io.Writer, results []Result) {
	for _, r := range results {
		style := statusStyles[r.Status]
		if r.Status == StatusOutdated && r.Source == modspec.SourceCurseForge {
			style = curseForgeOutdated
		}
		fmt.Fprintln(w, style.Render(r.Line()))
	}
}
