package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette. ANSI-256 codes that read on both light and dark terminals.
var (
	colorAccent  = lipgloss.Color("36")
	colorAdded   = lipgloss.Color("35")
	colorRemoved = lipgloss.Color("167")
	colorWarn    = lipgloss.Color("220")
	colorCommand = lipgloss.Color("75")
	colorValue   = lipgloss.Color("255")
	colorMuted   = lipgloss.Color("245")
	colorFaint   = lipgloss.Color("240")
)

var (
	// StyleHighlight marks coordinates and module names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleDim is for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue is for file paths and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleAdded       = lipgloss.NewStyle().Foreground(colorAdded)
	styleRemoved     = lipgloss.NewStyle().Foreground(colorRemoved)
	styleWarn        = lipgloss.NewStyle().Foreground(colorWarn)
	styleMuted       = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCommand)
	styleHunk        = lipgloss.NewStyle().Foreground(colorAccent)
	styleFileHeader  = lipgloss.NewStyle().Bold(true)
	styleTitle       = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

const iconArrow = "→"

// Status lines go to stdout, one per call.

func printSuccess(format string, args ...any) {
	fmt.Println(styleAdded.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleWarn.Render("! " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleMuted.Render("›") + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a rewritten POM with its diff stat.
func printFile(path string, added, removed int) {
	stat := styleAdded.Render(fmt.Sprintf("+%d", added)) + " " + styleRemoved.Render(fmt.Sprintf("-%d", removed))
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path) + " " + stat)
}

// printNextStep suggests a follow-up command.
func printNextStep(label, command string) {
	fmt.Println(StyleDim.Render(label+":") + " " + styleCommand.Render(command))
}

// newTable returns a rounded table. Column accent, if >= 0, is drawn in
// color; faint columns are dimmed.
func newTable(headers []string, rows [][]string, accent int, faint ...int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleTableHeader
			case col == accent:
				return styleTableCell.Foreground(colorAccent)
			}
			for _, f := range faint {
				if col == f {
					return styleTableCell.Foreground(colorFaint)
				}
			}
			return styleTableCell
		})
}

// writeDiff prints a unified diff, coloring header, hunk and change lines.
// Context lines are written untouched.
func writeDiff(w io.Writer, diff string) {
	for line := range strings.Lines(diff) {
		text := strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = styleFileHeader.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = styleHunk.Render(text)
		case strings.HasPrefix(text, "+"):
			text = styleAdded.Render(text)
		case strings.HasPrefix(text, "-"):
			text = styleRemoved.Render(text)
		}
		fmt.Fprintln(w, text)
	}
}
