package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atotto/clipboard"

	"draftpane/config"
	appmodel "draftpane/model"
	"draftpane/storage"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update spinner FIRST so TickMsg animates while a round trip runs
	if a.dataModel.Busy() {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		a.updateViewportContent(true)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1), separator (1), textarea (3), status (1)
		viewportHeight := a.height - 6
		a.viewport.Width = a.width
		a.viewport.Height = viewportHeight
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)

		// Trigger initial rendering once the width is known
		if a.dataModel.NeedsInitialRender {
			a.dataModel.NeedsInitialRender = false
			return a, a.renderPendingMarkdown()
		}

		return a, nil

	case tea.KeyMsg:
		// PRIORITY 0: always-global shortcuts
		switch msg.String() {
		case "ctrl+c":
			a.dataModel.Quitting = true
			return a, tea.Quit

		case "ctrl+h":
			a.showHelp = !a.showHelp
			return a, nil
		}

		// PRIORITY 1: modal-specific key handling
		if a.showHelp {
			if msg.String() == "esc" {
				a.showHelp = false
			}
			return a, nil
		}

		if a.showAPIKey {
			return a.handleAPIKeyUpdate(msg)
		}

		if a.showPicker {
			return a.handlePickerUpdate(msg)
		}

		if a.showSearch {
			return a.handleSearchUpdate(msg)
		}

		// PRIORITY 2: modal toggle shortcuts
		switch msg.String() {
		case "ctrl+n":
			a.closeAllModals()
			cmd := a.dataModel.StartNewConversation()
			a.textarea.Reset()
			a.updateViewportContent(true)
			return a, tea.Batch(cmd, a.renderPendingMarkdown())

		case "ctrl+l":
			a.closeAllModals()
			a.showPicker = true
			a.selectedConvIdx = 0
			a.pickerFilter.SetValue("")
			a.filteredConvList = nil
			return a, a.dataModel.FetchConversationList()

		case "ctrl+f":
			a.closeAllModals()
			a.showSearch = true
			a.searchInput.Focus()
			a.searchInput.SetValue("")
			a.searchResults = []storage.MessageMatch{}
			a.selectedSearchIdx = 0
			a.searchScrollIdx = 0
			return a, tea.Batch(textinput.Blink, a.dataModel.RebuildSearchIndex())

		case "ctrl+y":
			// Copy last assistant message
			for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
				if a.dataModel.Messages[i].Sender == storage.SenderAssistant {
					clipboard.WriteAll(a.dataModel.Messages[i].Content)
					return a, nil
				}
			}
			return a, nil

		case "alt+j", "alt+down":
			a.viewport.HalfViewDown()
			return a, nil

		case "alt+k", "alt+up":
			a.viewport.HalfViewUp()
			return a, nil

		case "alt+g":
			a.viewport.GotoTop()
			return a, nil

		case "alt+G":
			a.viewport.GotoBottom()
			return a, nil
		}

		// Enter submits; Alt+Enter passes through for newlines
		if msg.Type == tea.KeyEnter && !msg.Alt && !a.dataModel.Busy() {
			if a.textarea.Value() == "" {
				return a, nil
			}

			if a.dataModel.Assistant == nil {
				// No credentials configured: ask for the key first
				a.showAPIKey = true
				a.apiKeyInput.Focus()
				return a, textinput.Blink
			}

			userMsg := a.textarea.Value()
			a.textarea.Reset()

			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Enter pressed - submitting message: %s", userMsg)
			}

			submitCmd := a.dataModel.SubmitMessage(userMsg)
			a.updateViewportContent(true)

			return a, tea.Batch(
				a.renderPendingMarkdown(),
				submitCmd,
				a.loadingSpinner.Tick,
			)
		}

	case appmodel.AssistantRespondedMsg:
		cmd := a.dataModel.HandleAssistantResponse(msg)
		a.updateViewportContent(true)
		return a, tea.Batch(cmd, a.renderPendingMarkdown())

	case appmodel.OperationsAppliedMsg:
		cmd := a.dataModel.HandleOperationOutcomes(msg)
		a.updateViewportContent(true)
		return a, tea.Batch(cmd, a.renderPendingMarkdown())

	case appmodel.ReplyAppendedMsg:
		cmd := a.dataModel.HandleReplyAppended(msg)
		a.updateViewportContent(true)
		return a, tea.Batch(cmd, a.renderPendingMarkdown())

	case appmodel.MarkdownRenderedMsg:
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(true)
		}
		return a, nil

	case appmodel.ConversationsListMsg:
		a.conversationList = msg.Conversations
		a.selectedConvIdx = 0
		activeID := a.dataModel.Store.Active().ID
		for i, conv := range msg.Conversations {
			if conv.ID == activeID {
				a.selectedConvIdx = i
				break
			}
		}
		return a, nil

	case appmodel.SearchResultsMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] search failed: %v", msg.Err)
			}
			return a, nil
		}
		a.searchResults = msg.Matches
		a.selectedSearchIdx = 0
		a.searchScrollIdx = 0
		return a, nil

	case appmodel.IndexRebuiltMsg:
		// Failures are already logged; the index is derived data
		return a, nil
	}

	// Forward remaining messages to the focused component
	if a.showSearch {
		a.searchInput, cmd = a.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if a.showAPIKey {
		a.apiKeyInput, cmd = a.apiKeyInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if !a.showPicker {
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}
