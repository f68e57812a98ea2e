package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smarttable/internal/model"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(mode model.Mode, width int) string {
	switch mode {
	case model.ModeEdit:
		return renderEditHelp(width)
	case model.ModeFilter:
		return renderFilterHelp(width)
	default:
		return renderTableHelp(width)
	}
}

func renderTableHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("tab", "next col"),
		helpKey("s", "sort"),
		helpKey("/", "filter"),
		helpKey("e", "edit"),
		helpKey("space", "mark"),
		helpKey("D", "delete marked"),
		helpKey("[/]", "tables"),
		helpKey("?", "help"),
	}
	return renderHelpLine(keys, width)
}

func renderEditHelp(width int) string {
	keys := []string{
		helpKey("enter", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderFilterHelp(width int) string {
	keys := []string{
		helpKey("type", "filter column"),
		helpKey("enter", "keep"),
		helpKey("esc", "clear"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"tab / l / →", "Next column"},
			{"shift+tab / h / ←", "Previous column"},
			{"# then 1-9", "Jump to column"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"[ / ]", "Previous / next table"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}),
		titleSection("Table"),
		helpSection([]helpItem{
			{"s", "Sort by active column, again to reverse"},
			{"/", "Filter active column"},
			{"N", "Clear filter"},
			{"c / C", "Hide active column / show all"},
			{"y", "Copy cell to clipboard"},
		}),
		titleSection("Editing and deleting"),
		helpSection([]helpItem{
			{"e / enter", "Edit cell"},
			{"space / x", "Mark row for deletion"},
			{"D", "Delete marked rows"},
		}),
		titleSection("Edit and filter input"),
		helpSection([]helpItem{
			{"enter", "Save edit / keep filter"},
			{"esc", "Cancel edit / clear filter"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
