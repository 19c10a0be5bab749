package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("Draftpane - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global Actions"),
		"• Ctrl+N        New conversation",
		"• Ctrl+L        Conversation picker",
		"• Ctrl+F        Search all conversations",
		"• Ctrl+H        Toggle this help",
		"• Ctrl+C        Quit",
	)

	chatNavigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Navigation"),
		"• Alt+J/Down    Half page down",
		"• Alt+K/Up      Half page up",
		"• Alt+G         Jump to top",
		"• Alt+Shift+G   Jump to bottom",
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Actions"),
		"• Enter         Send message",
		"• Alt+Enter     Insert newline",
		"• Ctrl+Y        Copy last response",
	)

	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Tips"),
		"• Small edits keep document formatting",
		"• Replies land in your document too",
		"• Text selection works! (Mouse)",
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		globalActions,
		"",
		tips,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		chatNavigation,
		"",
		chatActions,
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(8)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"    ",
		columnStyle.Render(column2),
	)

	versionLine := ""
	if a.dataModel.Version != "" {
		versionLine = DimStyle.Render(fmt.Sprintf("v%s", a.dataModel.Version))
	}

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("      Press Ctrl+H or Esc to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		versionLine,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(100)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
