package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/pipeline"
	"github.com/matzehuels/gitbump/pkg/update"
)

// stdout receives all human-readable output; tests swap it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleNewer   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Result Output
// =============================================================================

// renderUpdates renders updates as a table.
func renderUpdates(updates []update.Update) string {
	rows := make([][]string, len(updates))
	for i, u := range updates {
		name := u.Name
		if u.Dev {
			name += StyleDim.Render(" (dev)")
		}
		rows[i] = []string{name, u.Installed, iconArrow + " " + u.Latest, u.Locator}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Installed", "Latest", "Locator").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 2:
				return styleNewer.Padding(0, 1)
			case col == 3:
				return StyleDim.Padding(0, 1)
			}
			return styleCell
		}).
		Render()
}

// printResult summarizes a resolution run.
func printResult(res *pipeline.Result) {
	for _, f := range res.Failed {
		printWarning("%s: %s", f.Spec.Name, errors.UserMessage(f.Err))
	}

	if len(res.Updates) == 0 {
		printSuccess("All %d git dependencies are up to date", len(res.Current))
	} else {
		fmt.Fprintln(stdout, renderUpdates(res.Updates))
		printInfo("%d of %d git dependencies can be updated", len(res.Updates), len(res.Updates)+len(res.Current))
	}

	if n := len(res.Skipped); n > 0 {
		printDetail("%d dependencies not pinned to git were skipped", n)
	}
}
