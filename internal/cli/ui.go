package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dontpanic/pkg/render"
)

// Terminal palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleHighlight marks ids and phrases.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink marks preview URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleValue marks paths and other values next to a label.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleRendered    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written PNG.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

func printRunStats(s render.Stats, variations, cacheHits int) {
	fmt.Println(runStatsLine(s, variations, cacheHits))
}

// runStatsLine summarizes a render run on one line:
//
//	42 cells · 3 layers skipped · 1 unresolved id · 2 placeholder layers · 1/3 cached
//
// Zero counts other than cells are left out.
func runStatsLine(s render.Stats, variations, cacheHits int) string {
	parts := []string{plural(s.Cells, "cell")}
	if s.Skipped > 0 {
		parts = append(parts, plural(s.Skipped, "layer")+" skipped")
	}
	if n := len(s.Unresolved); n > 0 {
		parts = append(parts, plural(n, "unresolved id"))
	}
	if s.Placeholders > 0 {
		parts = append(parts, StyleWarning.Render(plural(s.Placeholders, "placeholder layer")))
	}
	if cacheHits > 0 {
		parts = append(parts, styleCached.Render(fmt.Sprintf("%d/%d cached", cacheHits, variations)))
	} else {
		parts = append(parts, styleRendered.Render("rendered"))
	}

	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
