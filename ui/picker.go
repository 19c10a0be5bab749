package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"draftpane/storage"
)

func (a AppView) handlePickerUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmClearAll {
		switch msg.String() {
		case "y", "Y":
			a.confirmClearAll = false
			a.showPicker = false
			cmd := a.dataModel.ClearConversations()
			a.updateViewportContent(true)
			return a, tea.Batch(cmd, a.renderPendingMarkdown())
		case "n", "N", "esc":
			a.confirmClearAll = false
		}
		return a, nil
	}

	if a.pickerFilterMode {
		switch msg.String() {
		case "esc":
			a.pickerFilterMode = false
			a.pickerFilter.Blur()
			a.pickerFilter.SetValue("")
			a.filteredConvList = nil
			a.selectedConvIdx = 0
			return a, nil

		case "enter":
			return a.loadSelectedConversation()

		case "alt+j", "down":
			list := a.visibleConversations()
			if a.selectedConvIdx < len(list)-1 {
				a.selectedConvIdx++
			}
			return a, nil

		case "alt+k", "up":
			if a.selectedConvIdx > 0 {
				a.selectedConvIdx--
			}
			return a, nil
		}

		var cmd tea.Cmd
		a.pickerFilter, cmd = a.pickerFilter.Update(msg)
		a.filteredConvList = filterConversations(a.conversationList, a.pickerFilter.Value())
		a.selectedConvIdx = 0
		return a, cmd
	}

	switch msg.String() {
	case "esc", "ctrl+l":
		a.showPicker = false
		return a, nil

	case "j", "down":
		list := a.visibleConversations()
		if a.selectedConvIdx < len(list)-1 {
			a.selectedConvIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}
		return a, nil

	case "/":
		a.pickerFilterMode = true
		a.pickerFilter.SetValue("")
		a.pickerFilter.Focus()
		a.filteredConvList = nil
		return a, textinput.Blink

	case "ctrl+x":
		a.confirmClearAll = true
		return a, nil

	case "enter":
		return a.loadSelectedConversation()
	}

	return a, nil
}

func (a AppView) loadSelectedConversation() (tea.Model, tea.Cmd) {
	list := a.visibleConversations()
	if a.selectedConvIdx < 0 || a.selectedConvIdx >= len(list) {
		return a, nil
	}

	a.dataModel.SwitchConversation(list[a.selectedConvIdx].ID)
	a.closeAllModals()
	a.pickerFilter.SetValue("")
	a.filteredConvList = nil
	a.updateViewportContent(true)
	return a, a.renderPendingMarkdown()
}

func filterConversations(list []*storage.Conversation, query string) []*storage.Conversation {
	if query == "" {
		return nil
	}

	targets := make([]string, len(list))
	for i, conv := range list {
		targets[i] = conv.Title
	}

	matches := fuzzy.Find(query, targets)

	filtered := make([]*storage.Conversation, len(matches))
	for i, match := range matches {
		filtered[i] = list[match.Index]
	}

	return filtered
}

func renderConversationPicker(conversations []*storage.Conversation, selectedIdx int, activeID string, filterMode bool, filterInput textinput.Model, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 100 {
		modalWidth = 100
	}
	modalHeight := height - 6

	// Title section (no borders)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Conversations")

	// Header: filter input or count
	var header string
	if filterMode {
		header = filterInput.View()
	} else {
		header = fmt.Sprintf("%d conversations", len(conversations))
		if len(conversations) == 1 {
			header = "1 conversation"
		}
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	var convLines []string
	maxLines := modalHeight - 8

	if len(conversations) == 0 {
		emptyMsg := "No conversations yet. Start chatting to create one!"
		if filterMode {
			emptyMsg = "No matches found"
		}
		convLines = append(convLines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx := 0
		endIdx := len(conversations)

		// Keep the selection roughly centered while scrolling
		if len(conversations) > maxLines {
			if selectedIdx < maxLines/2 {
				endIdx = maxLines
			} else if selectedIdx >= len(conversations)-maxLines/2 {
				startIdx = len(conversations) - maxLines
			} else {
				startIdx = selectedIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		for i := startIdx; i < endIdx && i < len(conversations); i++ {
			conv := conversations[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			title := conv.Title
			maxTitleWidth := modalWidth - 36
			if runewidth.StringWidth(title) > maxTitleWidth {
				title = runewidth.Truncate(title, maxTitleWidth, "...")
			}

			hasActiveMarker := conv.ID == activeID

			msgCount := fmt.Sprintf("%d msgs", len(conv.Messages))
			if len(conv.Messages) == 1 {
				msgCount = "1 msg"
			}

			timeAgo := formatTimeAgo(conv.Timestamp)

			titleStyled := title
			if i == selectedIdx {
				titleStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(title)
			} else if hasActiveMarker {
				titleStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(title)
			}

			leftSide := fmt.Sprintf("%s%s", indicator, titleStyled)
			rightSide := fmt.Sprintf("%8s  %8s", msgCount, timeAgo)

			// Spacing uses VISUAL width, not the ANSI-coded string length
			leftVisualWidth := len(indicator) + runewidth.StringWidth(title)
			spacing := modalWidth - 4 - leftVisualWidth - len(rightSide)

			if hasActiveMarker {
				spacing -= 9 // " (active)"
			}

			if spacing < 2 {
				spacing = 2
			}

			if hasActiveMarker {
				markerColor := accentColor
				if i == selectedIdx {
					markerColor = successColor
				}
				leftSide += " " + lipgloss.NewStyle().Foreground(markerColor).Render("(active)")
			}

			rightStyled := rightSide
			if i == selectedIdx {
				rightStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(rightSide)
			} else if hasActiveMarker {
				rightStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(rightSide)
			}

			styledLine := fmt.Sprintf("  %s%s%s  ", leftSide, strings.Repeat(" ", spacing), rightStyled)

			convLines = append(convLines, lipgloss.NewStyle().
				Width(modalWidth).
				Render(styledLine))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	convLines = append([]string{emptyLine}, convLines...)
	convLines = append(convLines, emptyLine)

	var footerText string
	if filterMode {
		footerText = FormatFooter("Type", "to filter", "Alt+J/K", "Navigate", "Enter", "Load", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("/", "Filter", "j/k", "Navigate", "Enter", "Load", "Ctrl+X", "Clear All", "Esc", "Exit")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	var sections []string
	sections = append(sections, titleSection)
	sections = append(sections, headerSection)
	sections = append(sections, convLines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderClearAllConfirm(width, height int) string {
	warningText := lipgloss.NewStyle().Foreground(warningColor).Render("This action cannot be undone.")
	return RenderConfirmationModal(ConfirmationState{
		Active:  true,
		Title:   "⚠ Clear All Conversations",
		Message: fmt.Sprintf("Delete every saved conversation and start fresh?\n\n%s", warningText),
	}, width, height)
}

// formatTimeAgo formats a time as a relative string (e.g., "2h ago", "3d ago")
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	} else if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	} else if duration < 30*24*time.Hour {
		return fmt.Sprintf("%dw ago", int(duration.Hours()/24/7))
	}
	return fmt.Sprintf("%dmo ago", int(duration.Hours()/24/30))
}
