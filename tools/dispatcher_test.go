package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"draftpane/document"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *document.Document) {
	t.Helper()
	doc, err := document.Open(filepath.Join(t.TempDir(), "draft.dpd"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return NewDispatcher(doc), doc
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		input   string
		wantErr bool
		check   func(t *testing.T, op Operation)
	}{
		{
			name:  "text_editor str_replace",
			tool:  ToolTextEditor,
			input: `{"command":"str_replace","old_str":"January 1","new_str":"March 5"}`,
			check: func(t *testing.T, op Operation) {
				if op.TextEditor == nil {
					t.Fatal("TextEditor input not decoded")
				}
				if op.TextEditor.Command != CommandStrReplace {
					t.Errorf("command: got %q", op.TextEditor.Command)
				}
				if op.TextEditor.OldStr != "January 1" || op.TextEditor.NewStr != "March 5" {
					t.Errorf("strings: got %+v", op.TextEditor)
				}
			},
		},
		{
			name:  "document_writer with formatting",
			tool:  ToolDocumentWriter,
			input: `{"content":"Hello","position":"start","formatting":{"bold":true,"size":14}}`,
			check: func(t *testing.T, op Operation) {
				if op.DocumentWriter == nil {
					t.Fatal("DocumentWriter input not decoded")
				}
				in := op.DocumentWriter
				if in.Content != "Hello" || in.Position != "start" {
					t.Errorf("input: got %+v", in)
				}
				if in.Formatting.Bold == nil || !*in.Formatting.Bold {
					t.Error("bold not decoded")
				}
				if in.Formatting.Size != 14 {
					t.Errorf("size: got %v", in.Formatting.Size)
				}
				if in.Formatting.Italic != nil {
					t.Error("absent italic decoded as present")
				}
			},
		},
		{
			name:    "unknown tool",
			tool:    "file_manager",
			input:   `{}`,
			wantErr: true,
		},
		{
			name:    "malformed input",
			tool:    ToolTextEditor,
			input:   `{"command":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Decode(tt.tool, json.RawMessage(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if op.Name != tt.tool {
					t.Errorf("name not preserved on error: got %q", op.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			tt.check(t, op)
		})
	}
}

func TestApplyStrReplace(t *testing.T) {
	d, doc := newTestDispatcher(t)
	ctx := context.Background()

	if err := doc.InsertParagraphs(ctx, "Meeting on January 1 at noon", document.PositionEnd, document.Formatting{}); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	outcomes := d.Apply(ctx, []Operation{
		{Name: ToolTextEditor, TextEditor: &TextEditorInput{
			Command: CommandStrReplace, OldStr: "January 1", NewStr: "March 5",
		}},
	})

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Status != StatusApplied {
		t.Fatalf("status: got %s (%s)", outcomes[0].Status, outcomes[0].Detail)
	}
	want := `I've replaced "January 1" with "March 5" in your document.`
	if outcomes[0].Confirmation != want {
		t.Errorf("confirmation: got %q", outcomes[0].Confirmation)
	}
	if doc.Text() != "Meeting on March 5 at noon" {
		t.Errorf("document: got %q", doc.Text())
	}
}

func TestApplyDocumentWriterDefaultsPositionToEnd(t *testing.T) {
	d, doc := newTestDispatcher(t)
	ctx := context.Background()

	if err := doc.InsertParagraphs(ctx, "existing", document.PositionEnd, document.Formatting{}); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	outcomes := d.Apply(ctx, []Operation{
		{Name: ToolDocumentWriter, DocumentWriter: &DocumentWriterInput{Content: "appended"}},
	})

	if outcomes[0].Status != StatusApplied {
		t.Fatalf("status: got %s (%s)", outcomes[0].Status, outcomes[0].Detail)
	}
	if doc.Text() != "existing\nappended" {
		t.Errorf("document: got %q", doc.Text())
	}
}

func TestApplyOrderIsPreserved(t *testing.T) {
	d, doc := newTestDispatcher(t)
	ctx := context.Background()

	outcomes := d.Apply(ctx, []Operation{
		{Name: ToolDocumentWriter, DocumentWriter: &DocumentWriterInput{Content: "first"}},
		{Name: ToolDocumentWriter, DocumentWriter: &DocumentWriterInput{Content: "second"}},
	})

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for i, outcome := range outcomes {
		if outcome.Status != StatusApplied {
			t.Errorf("outcome %d: got %s", i, outcome.Status)
		}
	}
	if doc.Text() != "first\nsecond" {
		t.Errorf("operations applied out of order: %q", doc.Text())
	}
}

func TestApplyContinuesPastBadOperations(t *testing.T) {
	d, doc := newTestDispatcher(t)
	ctx := context.Background()

	outcomes := d.Apply(ctx, []Operation{
		{Name: "file_manager"}, // unknown tool
		{Name: ToolTextEditor, TextEditor: &TextEditorInput{Command: CommandStrReplace}}, // missing strings
		{Name: ToolDocumentWriter, DocumentWriter: &DocumentWriterInput{Content: "still applied"}},
	})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Status != StatusUnsupported {
		t.Errorf("unknown tool: got %s", outcomes[0].Status)
	}
	if outcomes[1].Status != StatusUnsupported {
		t.Errorf("missing fields: got %s", outcomes[1].Status)
	}
	if outcomes[2].Status != StatusApplied {
		t.Errorf("trailing operation was not applied: got %s", outcomes[2].Status)
	}
	if doc.Text() != "still applied" {
		t.Errorf("document: got %q", doc.Text())
	}
}

func TestApplyViewIsNoOp(t *testing.T) {
	d, doc := newTestDispatcher(t)
	ctx := context.Background()

	if err := doc.InsertParagraphs(ctx, "untouched", document.PositionEnd, document.Formatting{}); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	outcomes := d.Apply(ctx, []Operation{
		{Name: ToolTextEditor, TextEditor: &TextEditorInput{Command: CommandView}},
	})

	if outcomes[0].Status != StatusSkipped {
		t.Errorf("view status: got %s", outcomes[0].Status)
	}
	if doc.Text() != "untouched" {
		t.Errorf("view mutated the document: %q", doc.Text())
	}
}

func TestApplyStrReplaceNotFound(t *testing.T) {
	d, doc := newTestDispatcher(t)
	ctx := context.Background()

	if err := doc.InsertParagraphs(ctx, "nothing to see", document.PositionEnd, document.Formatting{}); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	outcomes := d.Apply(ctx, []Operation{
		{Name: ToolTextEditor, TextEditor: &TextEditorInput{
			Command: CommandStrReplace, OldStr: "missing", NewStr: "found",
		}},
	})

	if outcomes[0].Status != StatusSkipped {
		t.Errorf("status: got %s", outcomes[0].Status)
	}
	if outcomes[0].Confirmation != "" {
		t.Errorf("unexpected confirmation for a no-match replace: %q", outcomes[0].Confirmation)
	}
}
