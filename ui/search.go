package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"draftpane/storage"
)

func (a AppView) handleSearchUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+f":
		a.closeAllModals()
		a.searchInput.SetValue("")
		a.searchResults = nil
		return a, nil

	case "alt+j", "down":
		if a.selectedSearchIdx < len(a.searchResults)-1 {
			a.selectedSearchIdx++
			if a.selectedSearchIdx >= a.searchScrollIdx+searchResultsPerPage(a.height) {
				a.searchScrollIdx++
			}
		}
		return a, nil

	case "alt+k", "up":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
			if a.selectedSearchIdx < a.searchScrollIdx {
				a.searchScrollIdx--
			}
		}
		return a, nil

	case "enter":
		if a.selectedSearchIdx < 0 || a.selectedSearchIdx >= len(a.searchResults) {
			return a, nil
		}
		match := a.searchResults[a.selectedSearchIdx]
		a.dataModel.SwitchConversation(match.ConversationID)
		a.closeAllModals()
		a.searchInput.SetValue("")
		a.searchResults = nil
		a.updateViewportContent(true)
		return a, a.renderPendingMarkdown()
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)

	query := a.searchInput.Value()
	if query == "" {
		a.searchResults = nil
		a.selectedSearchIdx = 0
		a.searchScrollIdx = 0
		return a, cmd
	}

	return a, tea.Batch(cmd, a.dataModel.SearchMessages(query))
}

// searchResultsPerPage estimates how many results fit given the modal's
// fixed overhead and a conservative lines-per-result guess.
func searchResultsPerPage(height int) int {
	fixedOverhead := 12
	scrollIndicatorSpace := 4

	availableLines := height - fixedOverhead - scrollIndicatorSpace
	if availableLines < 3 {
		availableLines = 3
	}

	linesPerResult := 5
	perPage := availableLines / linesPerResult
	if perPage < 1 {
		perPage = 1
	}
	return perPage
}

func renderMessageSearch(searchInput textinput.Model, results []storage.MessageMatch, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search All Conversations")
	searchView := searchInput.View()

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search across all conversations...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		maxVisibleResults := searchResultsPerPage(height)

		startIdx := scrollIdx
		endIdx := scrollIdx + maxVisibleResults
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(results))

		if startIdx > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above\n\n", startIdx))
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			senderStyle := UserStyle
			if match.Sender == storage.SenderAssistant {
				senderStyle = AssistantStyle
			}

			matchText := fmt.Sprintf("%s [%s] %s\n  %s",
				senderStyle.Render(match.ConversationTitle),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				DimStyle.Render(match.Sender),
				match.Preview,
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}

			resultsView += matchText + "\n\n"
		}

		if endIdx < len(results) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx))
		}
	}

	footer := FormatFooter("Type", "to search", "Alt+J/K", "Navigate", "Enter", "Open Conversation", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
