package tui

import (
	"fmt"
	"strings"

	"rolldevmcp/internal/rolldev"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var columns = []struct {
	title string
	width int
}{
	{"NAME", 20},
	{"CONTAINERS", 11},
	{"URL", 32},
	{"NETWORK", 24},
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RollDev environments"))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	} else if !m.lastRefresh.IsZero() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  refreshed %s", m.lastRefresh.Format("15:04:05"))))
	}
	b.WriteString("\n\n")

	switch {
	case m.lastErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("status failed: %v", m.lastErr)))
		b.WriteString("\n")
	case len(m.environments) == 0 && !m.loading:
		b.WriteString(dimStyle.Render("No running environments found"))
		b.WriteString("\n")
	default:
		b.WriteString(renderHeader())
		for i, env := range m.environments {
			line := renderRow(env)
			if i == m.selected {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("↑/↓ select · c copy url · r refresh · q quit"))
	return b.String()
}

func renderHeader() string {
	var cells []string
	for _, col := range columns {
		cells = append(cells, pad(col.title, col.width))
	}
	return "  " + headerStyle.Render(strings.Join(cells, " ")) + "\n"
}

func renderRow(env rolldev.Environment) string {
	cells := []string{
		pad(env.Name, columns[0].width),
		pad(fmt.Sprintf("%d", env.Containers), columns[1].width),
		pad(valueOrDash(env.URL), columns[2].width),
		pad(valueOrDash(env.Network), columns[3].width),
	}
	return strings.Join(cells, " ")
}

// pad truncates or right-pads a cell to its display width, icon and
// wide-rune safe.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width-1, "…")
	}
	return runewidth.FillRight(s, width)
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
