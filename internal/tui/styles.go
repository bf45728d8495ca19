package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the LIFTLOG logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "L I F T L O G" as a wave of orange light moving
// left to right. Deep ember (#5a2a10) -> bright amber (#fb923c).
func renderShimmerLogo(frame int) string {
	const text = "LIFTLOG"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18
		b = math.Min(math.Max(b, 0.05), 1.0)

		r := clampByte(90 + b*(251-90))
		g := clampByte(42 + b*(146-42))
		bl := clampByte(16 + b*(60-16))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb923c")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f97316"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	prStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d4a844")).
		Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f97316")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	categoryColors = map[string]lipgloss.Color{
		"Chest":     lipgloss.Color("#e06060"),
		"Back":      lipgloss.Color("#60a0e0"),
		"Legs":      lipgloss.Color("#b080d0"),
		"Shoulders": lipgloss.Color("#f0944a"),
		"Arms":      lipgloss.Color("#d4a844"),
		"Core":      lipgloss.Color("#3ecce4"),
		"Cardio":    lipgloss.Color("#4ade80"),
		"Other":     lipgloss.Color("#8890a0"),
	}
)

// CategoryStyle returns a bold style colored for an exercise category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// difficultyStyle colors a 1-10 difficulty rating.
func difficultyStyle(d int) lipgloss.Style {
	switch {
	case d >= 8:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true)
	case d >= 5:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#8891a5"))
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	path  string
}

var helpItems = []helpItem{
	{"Dashboard", "/"},
	{"Workouts", "/workouts"},
	{"Programs", "/programs"},
	{"Templates", "/templates"},
}

// helpView renders the help overlay; links are relative to webURL.
func helpView(cursor int, webURL string) string {
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	pick := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fb923c"))

	commands := []struct{ cmd, desc string }{
		{"liftlog", "Open the tracker (interactive TUI)"},
		{"liftlog login", "Sign in with email and password"},
		{"liftlog register", "Create an account"},
		{"liftlog logout", "Clear your session"},
		{"liftlog import FILE", "Import a program from CSV"},
		{"liftlog plates KG", "Plates per side for a barbell"},
		{"liftlog web", "Open the web dashboard"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("L I F T L O G"))

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Web (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = pick.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, descStyle.Render(strings.TrimRight(webURL, "/")+item.path))
	}
	return b.String()
}
