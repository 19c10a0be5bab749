package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"draftpane/config"
)

// FetchConversationList retrieves the conversation list for the picker.
func (m *Model) FetchConversationList() tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		return ConversationsListMsg{Conversations: store.All()}
	}
}

// StartNewConversation creates a fresh seeded conversation and makes it
// active.
func (m *Model) StartNewConversation() tea.Cmd {
	m.Store.New()
	m.syncFromActive()
	return m.RebuildSearchIndex()
}

// SwitchConversation makes the conversation with the given id active.
// Returns false when the id is unknown; the current conversation stays.
func (m *Model) SwitchConversation(id string) bool {
	if !m.Store.SetActive(id) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] switch to unknown conversation %s", id)
		}
		return false
	}
	m.syncFromActive()
	return true
}

// ClearConversations deletes every conversation and reseeds.
func (m *Model) ClearConversations() tea.Cmd {
	m.Store.ClearAll()
	m.syncFromActive()
	return m.RebuildSearchIndex()
}

// SearchMessages runs a full-text query over all conversations.
func (m *Model) SearchMessages(query string) tea.Cmd {
	index := m.SearchIndex
	return func() tea.Msg {
		if index == nil {
			return SearchResultsMsg{Query: query}
		}
		matches, err := index.Search(query)
		return SearchResultsMsg{Query: query, Matches: matches, Err: err}
	}
}

// RebuildSearchIndex refreshes the index from the persisted conversations.
// The index is derived data; rebuild failures are reported but never block
// the chat flow.
func (m *Model) RebuildSearchIndex() tea.Cmd {
	if m.SearchIndex == nil {
		return nil
	}

	index := m.SearchIndex
	store := m.Store
	return func() tea.Msg {
		err := index.Rebuild(store.All())
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] search index rebuild failed: %v", err)
		}
		return IndexRebuiltMsg{Err: err}
	}
}
