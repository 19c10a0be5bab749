package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"draftpane/config"
	"draftpane/provider"
)

func (a AppView) handleAPIKeyUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Continue without an assistant; submits show the modal again
		a.showAPIKey = false
		a.apiKeyError = ""
		a.apiKeyInput.SetValue("")
		a.apiKeyInput.Blur()
		return a, nil

	case "enter":
		key := strings.TrimSpace(a.apiKeyInput.Value())
		if key == "" {
			a.apiKeyError = "API key cannot be empty"
			return a, nil
		}

		cfg := a.dataModel.Config

		assistant, err := provider.New(provider.Config{
			Type:    provider.MapProviderIDToType(cfg.Provider),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  key,
		})
		if err != nil {
			a.apiKeyError = err.Error()
			return a, nil
		}

		if cfg.CredentialStore != nil {
			cfg.CredentialStore.Set(cfg.Provider, key)
			// DataDir() expands "~"; the raw DataDirectory would miss the
			// credentials file loaded at startup.
			if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[UI] failed to save credentials: %v", err)
				}
				a.apiKeyError = "Could not save the key, but it will be used for this session"
			} else if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] saved credential for %s via %s",
					cfg.Provider, cfg.CredentialStore.GetMethod())
			}
		}

		a.dataModel.Assistant = assistant
		a.showAPIKey = false
		a.apiKeyError = ""
		a.apiKeyInput.SetValue("")
		a.apiKeyInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.apiKeyInput, cmd = a.apiKeyInput.Update(msg)
	return a, cmd
}

func (a AppView) renderAPIKeyModal() string {
	// Guard clause: tiny terminals or pre-WindowSizeMsg renders
	if a.width < 20 || a.height < 10 {
		return "Terminal too small"
	}

	modalWidth := 70
	if a.width < modalWidth+10 {
		modalWidth = a.width - 10
		if modalWidth < 10 {
			modalWidth = 10
		}
	}

	providerName := a.dataModel.Config.Provider
	if providerName == "" {
		providerName = "anthropic"
	}

	// Title section (no borders)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("API Key Required")

	var messageLines []string
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	msg1 := fmt.Sprintf("No API key is configured for provider %q.", providerName)
	msg2 := "Enter a key to start chatting:"

	messageLines = append(messageLines, centerTextLine(msg1, modalWidth))
	messageLines = append(messageLines, centerTextLine(msg2, modalWidth))
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
	messageLines = append(messageLines, centerTextLine(a.apiKeyInput.View(), modalWidth))
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	if a.apiKeyError != "" {
		styledErr := lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true).
			Render("⚠ " + a.apiKeyError)
		messageLines = append(messageLines, centerTextLine(styledErr, modalWidth))
		messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
	}

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(messageLines, "\n"))

	footer := FormatFooter("Enter", "Save", "Esc", "Skip")
	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	sections := []string{titleSection, messageSection, footerSection}
	content := strings.Join(sections, "\n")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// centerTextLine centers a line of text within a given width
func centerTextLine(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}

	leftPad := (width - textWidth) / 2
	rightPad := width - textWidth - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}
