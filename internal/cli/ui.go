package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/errors"
)

// Terminal palette. Kind counts reuse the stroke hues of the rendered
// diagram: green inference, red conflict, blue preference.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// kindStyles colors per-kind counts in stats lines.
var kindStyles = map[argument.Kind]lipgloss.Style{
	argument.KindStatement:             lipgloss.NewStyle().Foreground(colorWhite),
	argument.KindRuleApplication:       lipgloss.NewStyle().Foreground(colorGreen),
	argument.KindConflictApplication:   lipgloss.NewStyle().Foreground(colorRed),
	argument.KindPreferenceApplication: lipgloss.NewStyle().Foreground(colorBlue),
}

// status is the leading glyph of a one-line message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// stdout receives all command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func (s status) print(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusFail.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarn.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printNotice shows a diagram notice. Silent notices stay in the log.
func printNotice(n errors.Notice) {
	switch n.Level {
	case errors.LevelBlocking:
		printError("%s", n.Message)
	case errors.LevelInfo:
		printWarning("%s", n.Message)
	}
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints the node and edge counts of g with an optional suffix
// such as the layout strategy, coloring each kind count by its role.
func printStats(g *argument.Graph, suffix string) {
	line := formatStats(g, suffix, func(k argument.Kind, s string) string {
		if st, ok := kindStyles[k]; ok {
			return st.Render(s)
		}
		return s
	})
	fmt.Fprintln(stdout, "  "+line)
}

// statsLine summarizes g as "7 nodes (4 I, 2 RA, 1 CA) · 6 edges · layered"
// without styling, for places that truncate by rune count.
func statsLine(g *argument.Graph, suffix string) string {
	return formatStats(g, suffix, func(_ argument.Kind, s string) string { return s })
}

// formatStats leaves out kinds with no nodes.
func formatStats(g *argument.Graph, suffix string, paint func(argument.Kind, string) string) string {
	var kinds []string
	for _, k := range argument.AllKinds() {
		if n := len(g.NodesOfKind(k)); n > 0 {
			kinds = append(kinds, paint(k, strconv.Itoa(n)+" "+k.String()))
		}
	}

	nodes := plural(g.NodeCount(), "node")
	if len(kinds) > 0 {
		nodes += " (" + strings.Join(kinds, ", ") + ")"
	}
	parts := []string{nodes, plural(g.EdgeCount(), "edge")}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, " · ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
