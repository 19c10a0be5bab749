package model

import (
	"draftpane/config"
	"draftpane/document"
	"draftpane/storage"
	"draftpane/tools"
)

// Phase tracks where the submit pipeline currently is. Input is accepted
// only while idle; a second submit during a round trip is rejected, not
// queued.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingModel
	PhaseApplyingOperations
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config      *config.Config
	Store       *storage.ConversationStore
	Doc         *document.Document
	Assistant   Assistant
	SearchIndex *storage.SearchIndex
	Dispatcher  *tools.Dispatcher

	// Application data
	Messages     []Message
	LastOutcomes []tools.Outcome
	LastChange   string // "+a -r" summary of the latest document mutation

	// Runtime state (not UI)
	Phase              Phase
	NeedsInitialRender bool
	Quitting           bool

	// Application metadata
	Version string
	License string
}

// NewModel creates a new Model wired to an open store and document. The
// assistant may be nil when no credentials are configured; submits then fail
// with an apology instead of a crash.
func NewModel(cfg *config.Config, store *storage.ConversationStore, doc *document.Document, assistant Assistant, searchIndex *storage.SearchIndex, version, license string) *Model {
	m := &Model{
		Config:      cfg,
		Store:       store,
		Doc:         doc,
		Assistant:   assistant,
		SearchIndex: searchIndex,
		Dispatcher:  tools.NewDispatcher(doc),
		Phase:       PhaseIdle,
		Version:     version,
		License:     license,
	}

	m.syncFromActive()

	if config.DebugLog != nil {
		active := store.Active()
		config.DebugLog.Printf("[Model] NewModel: active conversation %q with %d messages",
			active.Title, len(active.Messages))
	}

	return m
}

// Busy reports whether a submit round trip is in flight.
func (m *Model) Busy() bool {
	return m.Phase != PhaseIdle
}

// syncFromActive mirrors the active conversation's messages into the render
// list. Rendered markdown is recomputed lazily by the UI.
func (m *Model) syncFromActive() {
	conv := m.Store.Active()

	messages := make([]Message, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		messages = append(messages, Message{
			Sender:    msg.Sender,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	m.Messages = messages
	m.NeedsInitialRender = len(messages) > 0
}
