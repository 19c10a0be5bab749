package tools

import (
	"encoding/json"
	"fmt"

	"draftpane/document"
)

// TextEditor commands.
const (
	CommandView       = "view"
	CommandStrReplace = "str_replace"
)

// TextEditorInput is the decoded input of a text_editor invocation.
type TextEditorInput struct {
	Command string `json:"command"`
	OldStr  string `json:"old_str,omitempty"`
	NewStr  string `json:"new_str,omitempty"`
}

// DocumentWriterInput is the decoded input of a document_writer invocation.
type DocumentWriterInput struct {
	Content    string              `json:"content"`
	Position   string              `json:"position,omitempty"`
	Formatting document.Formatting `json:"formatting,omitempty"`
}

// Operation is one structured tool invocation returned by the model: a
// tagged variant, exactly one input set for a recognized tool. An Operation
// with neither input set (unknown tool, undecodable input) still flows to
// the dispatcher so it can surface an unsupported outcome instead of being
// silently dropped.
type Operation struct {
	Name           string
	TextEditor     *TextEditorInput
	DocumentWriter *DocumentWriterInput
}

// Decode turns a raw tool invocation into an Operation. The returned error
// reports unknown tool names and undecodable input; callers that want the
// invocation surfaced as an outcome keep the bare Operation{Name: name}.
func Decode(name string, input json.RawMessage) (Operation, error) {
	op := Operation{Name: name}

	switch name {
	case ToolTextEditor:
		var in TextEditorInput
		if err := json.Unmarshal(input, &in); err != nil {
			return op, fmt.Errorf("failed to decode %s input: %w", name, err)
		}
		op.TextEditor = &in
		return op, nil

	case ToolDocumentWriter:
		var in DocumentWriterInput
		if err := json.Unmarshal(input, &in); err != nil {
			return op, fmt.Errorf("failed to decode %s input: %w", name, err)
		}
		op.DocumentWriter = &in
		return op, nil

	default:
		return op, fmt.Errorf("unknown tool %q", name)
	}
}
