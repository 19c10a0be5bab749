package model

import (
	"draftpane/storage"
	"draftpane/tools"
)

// AssistantRespondedMsg carries the model round-trip result.
type AssistantRespondedMsg struct {
	Response *AssistantResponse
	Err      error
}

// OperationsAppliedMsg carries the per-operation outcomes of a dispatch pass
// plus a line-diff summary of what the pass did to the document.
type OperationsAppliedMsg struct {
	Outcomes []tools.Outcome
	Change   string
}

// ReplyAppendedMsg reports writing a prose-only reply into the document.
type ReplyAppendedMsg struct {
	Err error
}

// IndexRebuiltMsg reports a search index rebuild.
type IndexRebuiltMsg struct {
	Err error
}

type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

type ConversationsListMsg struct {
	Conversations []*storage.Conversation
}

type SearchResultsMsg struct {
	Query   string
	Matches []storage.MessageMatch
	Err     error
}

type FlashTickMsg struct{}
