package model

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"draftpane/config"
	"draftpane/document"
	"draftpane/storage"
	"draftpane/tools"
)

// fakeAssistant returns a canned response or error.
type fakeAssistant struct {
	response *AssistantResponse
	err      error
	calls    int
	lastUser string
	lastDoc  string
}

func (f *fakeAssistant) Respond(ctx context.Context, userText, documentText string) (*AssistantResponse, error) {
	f.calls++
	f.lastUser = userText
	f.lastDoc = documentText
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeAssistant) GetModel() string       { return "fake-model" }
func (f *fakeAssistant) GetDisplayName() string { return "fake-model" }

func newTestModel(t *testing.T, assistant Assistant) *Model {
	t.Helper()

	dataDir := t.TempDir()

	store, err := storage.OpenConversationStore(dataDir)
	if err != nil {
		t.Fatalf("OpenConversationStore failed: %v", err)
	}

	doc, err := document.Open(filepath.Join(dataDir, "draft.dpd"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	cfg := &config.Config{DataDirectory: dataDir}
	return NewModel(cfg, store, doc, assistant, nil, "test", "MIT")
}

func lastMessage(t *testing.T, m *Model) Message {
	t.Helper()
	if len(m.Messages) == 0 {
		t.Fatal("no messages")
	}
	return m.Messages[len(m.Messages)-1]
}

func TestSubmitAppliesStrReplace(t *testing.T) {
	fake := &fakeAssistant{
		response: &AssistantResponse{
			Operations: []tools.Operation{
				{Name: tools.ToolTextEditor, TextEditor: &tools.TextEditorInput{
					Command: tools.CommandStrReplace,
					OldStr:  "January 1",
					NewStr:  "March 5",
				}},
			},
		},
	}
	m := newTestModel(t, fake)

	if err := m.Doc.InsertParagraphs(context.Background(), "Meeting on January 1", document.PositionEnd, document.Formatting{}); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	cmd := m.SubmitMessage("change the date to March 5")
	if cmd == nil {
		t.Fatal("SubmitMessage returned nil while idle")
	}
	if m.Phase != PhaseAwaitingModel {
		t.Fatalf("phase after submit: got %d", m.Phase)
	}

	responded, ok := cmd().(AssistantRespondedMsg)
	if !ok {
		t.Fatal("expected AssistantRespondedMsg")
	}
	if !strings.Contains(fake.lastDoc, "January 1") {
		t.Errorf("document snapshot not passed to assistant: %q", fake.lastDoc)
	}

	cmd = m.HandleAssistantResponse(responded)
	if m.Phase != PhaseApplyingOperations {
		t.Fatalf("phase after response: got %d", m.Phase)
	}

	applied, ok := cmd().(OperationsAppliedMsg)
	if !ok {
		t.Fatal("expected OperationsAppliedMsg")
	}
	m.HandleOperationOutcomes(applied)

	if m.Phase != PhaseIdle {
		t.Errorf("phase after outcomes: got %d", m.Phase)
	}
	if m.Doc.Text() != "Meeting on March 5" {
		t.Errorf("document: got %q", m.Doc.Text())
	}

	last := lastMessage(t, m)
	if last.Sender != storage.SenderAssistant {
		t.Errorf("last sender: got %q", last.Sender)
	}
	want := `I've replaced "January 1" with "March 5" in your document.`
	if last.Content != want {
		t.Errorf("confirmation: got %q", last.Content)
	}

	// First user message derives the conversation title
	if got := m.Store.Active().Title; got != "change the date to March 5" {
		t.Errorf("title: got %q", got)
	}
}

func TestSubmitAppendsProseOnlyReply(t *testing.T) {
	fake := &fakeAssistant{
		response: &AssistantResponse{Reply: "Your document is empty."},
	}
	m := newTestModel(t, fake)

	cmd := m.SubmitMessage("what's in my document?")
	responded := cmd().(AssistantRespondedMsg)

	cmd = m.HandleAssistantResponse(responded)
	if last := lastMessage(t, m); last.Content != "Your document is empty." {
		t.Errorf("reply not recorded: %q", last.Content)
	}

	appendedMsg, ok := cmd().(ReplyAppendedMsg)
	if !ok {
		t.Fatal("expected ReplyAppendedMsg")
	}
	m.HandleReplyAppended(appendedMsg)

	if m.Phase != PhaseIdle {
		t.Errorf("phase: got %d", m.Phase)
	}
	if !strings.Contains(m.Doc.Text(), "Your document is empty.") {
		t.Errorf("reply not written to document: %q", m.Doc.Text())
	}
}

func TestSubmitFailureShowsApology(t *testing.T) {
	fake := &fakeAssistant{err: ErrModelUnavailable}
	m := newTestModel(t, fake)

	cmd := m.SubmitMessage("hello")
	responded := cmd().(AssistantRespondedMsg)
	m.HandleAssistantResponse(responded)

	if m.Phase != PhaseIdle {
		t.Errorf("phase: got %d", m.Phase)
	}
	if last := lastMessage(t, m); last.Content != Apology {
		t.Errorf("expected apology, got %q", last.Content)
	}
}

func TestSubmitRejectedWhileBusy(t *testing.T) {
	fake := &fakeAssistant{response: &AssistantResponse{}}
	m := newTestModel(t, fake)
	before := len(m.Messages)

	m.Phase = PhaseAwaitingModel
	if cmd := m.SubmitMessage("second request"); cmd != nil {
		t.Error("expected nil cmd while busy")
	}
	if len(m.Messages) != before {
		t.Error("busy submit must not record a message")
	}
	if fake.calls != 0 {
		t.Error("busy submit must not reach the assistant")
	}
}

func TestFailedOperationShowsApology(t *testing.T) {
	fake := &fakeAssistant{response: &AssistantResponse{}}
	m := newTestModel(t, fake)

	m.HandleOperationOutcomes(OperationsAppliedMsg{
		Outcomes: []tools.Outcome{
			{Status: tools.StatusFailed, Err: context.DeadlineExceeded},
		},
	})

	if last := lastMessage(t, m); last.Content != Apology {
		t.Errorf("expected apology, got %q", last.Content)
	}
	if len(m.LastOutcomes) != 1 {
		t.Errorf("outcomes not recorded: %d", len(m.LastOutcomes))
	}
}

func TestNilAssistantShowsApology(t *testing.T) {
	m := newTestModel(t, nil)

	m.SubmitMessage("hello")

	if m.Phase != PhaseIdle {
		t.Errorf("phase: got %d", m.Phase)
	}
	if last := lastMessage(t, m); last.Content != Apology {
		t.Errorf("expected apology, got %q", last.Content)
	}
}

func TestSwitchConversation(t *testing.T) {
	m := newTestModel(t, &fakeAssistant{response: &AssistantResponse{}})

	first := m.Store.Active().ID
	m.StartNewConversation()
	second := m.Store.Active().ID

	if first == second {
		t.Fatal("new conversation did not change the active id")
	}

	if !m.SwitchConversation(first) {
		t.Fatal("switch to known conversation failed")
	}
	if m.Store.Active().ID != first {
		t.Error("active conversation not switched")
	}

	if m.SwitchConversation("not-a-conversation") {
		t.Error("switch to unknown id must fail")
	}
	if m.Store.Active().ID != first {
		t.Error("failed switch must not change the active conversation")
	}
}
