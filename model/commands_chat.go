package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"draftpane/config"
	"draftpane/document"
	"draftpane/storage"
	"draftpane/tools"
)

// SubmitMessage starts a model round trip for the given user text. Returns
// nil while a previous round trip is still in flight; the message is
// rejected, not queued.
func (m *Model) SubmitMessage(text string) tea.Cmd {
	if m.Phase != PhaseIdle {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] submit rejected, phase=%d", m.Phase)
		}
		return nil
	}

	m.appendMessage(storage.SenderUser, text)

	if m.Assistant == nil {
		m.appendMessage(storage.SenderAssistant, Apology)
		return m.RebuildSearchIndex()
	}

	m.Phase = PhaseAwaitingModel

	assistant := m.Assistant
	doc := m.Doc
	return func() tea.Msg {
		ctx := context.Background()

		snapshot, err := doc.ReadAll(ctx)
		if err != nil {
			return AssistantRespondedMsg{Err: err}
		}

		response, err := assistant.Respond(ctx, text, snapshot)
		return AssistantRespondedMsg{Response: response, Err: err}
	}
}

// HandleAssistantResponse routes the model result into the next phase:
// operations go to the dispatcher, a prose-only reply is written into the
// document, failures become the fixed apology message.
func (m *Model) HandleAssistantResponse(msg AssistantRespondedMsg) tea.Cmd {
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] assistant call failed: %v", msg.Err)
		}
		m.appendMessage(storage.SenderAssistant, Apology)
		m.Phase = PhaseIdle
		return m.RebuildSearchIndex()
	}

	if msg.Response.Reply != "" {
		m.appendMessage(storage.SenderAssistant, msg.Response.Reply)
	}

	if len(msg.Response.Operations) > 0 {
		m.Phase = PhaseApplyingOperations
		return m.ApplyOperations(msg.Response.Operations)
	}

	if msg.Response.Reply != "" {
		m.Phase = PhaseApplyingOperations
		return m.AppendReply(msg.Response.Reply)
	}

	m.Phase = PhaseIdle
	return m.RebuildSearchIndex()
}

// ApplyOperations dispatches the model's operations against the document.
func (m *Model) ApplyOperations(operations []tools.Operation) tea.Cmd {
	dispatcher := m.Dispatcher
	doc := m.Doc
	return func() tea.Msg {
		ctx := context.Background()

		before, _ := doc.ReadAll(ctx)
		outcomes := dispatcher.Apply(ctx, operations)
		after, _ := doc.ReadAll(ctx)

		added, removed := document.ChangeSummary(before, after)
		return OperationsAppliedMsg{
			Outcomes: outcomes,
			Change:   document.FormatChange(added, removed),
		}
	}
}

// HandleOperationOutcomes records confirmations for applied operations and
// returns the model to idle. A failed operation surfaces as the apology; a
// skipped or unsupported one only shows in the outcome list.
func (m *Model) HandleOperationOutcomes(msg OperationsAppliedMsg) tea.Cmd {
	m.LastOutcomes = msg.Outcomes
	if msg.Change != "" {
		m.LastChange = msg.Change
	}

	failed := false
	for _, outcome := range msg.Outcomes {
		switch outcome.Status {
		case tools.StatusApplied:
			m.appendMessage(storage.SenderAssistant, outcome.Confirmation)
		case tools.StatusFailed:
			failed = true
		}
	}

	if failed {
		m.appendMessage(storage.SenderAssistant, Apology)
	}

	m.Phase = PhaseIdle
	return m.RebuildSearchIndex()
}

// AppendReply writes a prose-only reply into the document body.
func (m *Model) AppendReply(reply string) tea.Cmd {
	doc := m.Doc
	return func() tea.Msg {
		err := doc.AppendResponse(context.Background(), reply)
		return ReplyAppendedMsg{Err: err}
	}
}

// HandleReplyAppended closes the prose-only path.
func (m *Model) HandleReplyAppended(msg ReplyAppendedMsg) tea.Cmd {
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] failed to append reply to document: %v", msg.Err)
		}
		m.appendMessage(storage.SenderAssistant, Apology)
	}

	m.Phase = PhaseIdle
	return m.RebuildSearchIndex()
}

// appendMessage records a message in the render list and the store.
func (m *Model) appendMessage(sender, content string) {
	now := time.Now()

	m.Messages = append(m.Messages, Message{
		Sender:    sender,
		Content:   content,
		Timestamp: now,
	})

	m.Store.Append(storage.ChatMessage{
		Content:   content,
		Sender:    sender,
		Timestamp: now,
	})
}
