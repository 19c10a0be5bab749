package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "draftpane/model"
	"draftpane/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Loading spinner while the model round trip is in flight
	loadingSpinner spinner.Model

	// Conversation picker
	showPicker       bool
	conversationList []*storage.Conversation
	selectedConvIdx  int
	pickerFilterMode bool
	pickerFilter     textinput.Model
	filteredConvList []*storage.Conversation
	confirmClearAll  bool

	// Message search across conversations
	showSearch        bool
	searchInput       textinput.Model
	searchResults     []storage.MessageMatch
	selectedSearchIdx int
	searchScrollIdx   int

	// API key entry, shown while no assistant is configured
	showAPIKey  bool
	apiKeyInput textinput.Model
	apiKeyError string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about your document or request an edit..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone submits (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// "> " for the first line, "| " for continuation lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	pickerFilter := textinput.New()
	pickerFilter.Prompt = "Filter: "
	pickerFilter.CharLimit = 64

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.CharLimit = 100

	apiKeyInput := textinput.New()
	apiKeyInput.Prompt = "API key: "
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.EchoCharacter = '*'
	apiKeyInput.CharLimit = 256

	ls := spinner.New()
	ls.Spinner = spinner.Dot
	ls.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	if dataModel.Assistant == nil {
		apiKeyInput.Focus()
	}

	return AppView{
		dataModel:      dataModel,
		textarea:       ta,
		viewport:       vp,
		loadingSpinner: ls,
		pickerFilter:   pickerFilter,
		searchInput:    searchInput,
		apiKeyInput:    apiKeyInput,
		// No credentials configured yet: ask before the first submit
		showAPIKey: dataModel.Assistant == nil,
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown rendering waits for WindowSizeMsg so the width is known
	cmds := []tea.Cmd{
		textarea.Blink,
		a.dataModel.RebuildSearchIndex(),
	}
	if a.showAPIKey {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading draftpane..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Help (can peek while in other modals)
	// 2. API key entry
	// 3. Conversation picker (with clear-all confirmation)
	// 4. Message search

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.showAPIKey {
		return a.renderAPIKeyModal()
	}

	if a.showPicker {
		if a.confirmClearAll {
			return renderClearAllConfirm(a.width, a.height)
		}
		return renderConversationPicker(a.visibleConversations(), a.selectedConvIdx,
			a.dataModel.Store.Active().ID, a.pickerFilterMode, a.pickerFilter, a.width, a.height)
	}

	if a.showSearch {
		return renderMessageSearch(a.searchInput, a.searchResults,
			a.selectedSearchIdx, a.searchScrollIdx, a.width, a.height)
	}

	// Title bar - "Draftpane - model - document - conversation"
	appText := AssistantStyle.Render("Draftpane")
	modelName := "no model"
	if a.dataModel.Assistant != nil {
		modelName = a.dataModel.Assistant.GetDisplayName()
	}
	modelText := TitleStyle.Render(fmt.Sprintf(" - %s", modelName))
	docText := UserStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Doc.Name()))
	convText := DimStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Store.Active().Title))
	title := appText + modelText + docText + convText

	if a.dataModel.LastChange != "" {
		title += ChangeStyle.Render("  " + a.dataModel.LastChange)
	}

	separator := ""
	viewportView := a.viewport.View()
	inputView := a.textarea.View()

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Ctrl+C %s  Ctrl+N %s  Ctrl+L %s  Ctrl+F %s  Ctrl+Y %s  Alt+Enter %s  Enter %s  Ctrl+H %s",
		descStyle.Render("Quit"),
		descStyle.Render("New"),
		descStyle.Render("Conversations"),
		descStyle.Render("Search"),
		descStyle.Render("Copy"),
		descStyle.Render("New Line"),
		descStyle.Render("Send"),
		descStyle.Render("Help"),
	)
	statusBar = StatusStyle.Render(statusBar)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) visibleConversations() []*storage.Conversation {
	if a.pickerFilterMode && a.pickerFilter.Value() != "" {
		return a.filteredConvList
	}
	return a.conversationList
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showPicker = false
	a.showSearch = false
	a.confirmClearAll = false
	a.pickerFilterMode = false

	if a.pickerFilter.Focused() {
		a.pickerFilter.Blur()
	}
	if a.searchInput.Focused() {
		a.searchInput.Blur()
	}
}
