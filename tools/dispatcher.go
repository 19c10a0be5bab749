package tools

import (
	"context"
	"fmt"

	"draftpane/config"
	"draftpane/document"
)

// Status classifies what happened to one operation.
type Status string

const (
	// StatusApplied - the document was mutated; Confirmation is set.
	StatusApplied Status = "applied"
	// StatusSkipped - valid operation with nothing to do (view, or a
	// replacement whose search text was not found).
	StatusSkipped Status = "skipped"
	// StatusUnsupported - unknown tool name or missing required fields.
	StatusUnsupported Status = "unsupported"
	// StatusFailed - the document adapter returned an error.
	StatusFailed Status = "failed"
)

// Outcome is the per-operation result of a dispatch pass.
type Outcome struct {
	Operation    Operation
	Status       Status
	Confirmation string // chat confirmation for applied operations
	Detail       string // reason for skipped/unsupported operations
	Err          error
}

// Dispatcher applies tool operations to the document. It side-effects only
// the document; confirmation messages are returned in the outcomes so the
// caller decides how to record them.
type Dispatcher struct {
	doc *document.Document
}

// NewDispatcher creates a dispatcher bound to the open document.
func NewDispatcher(doc *document.Document) *Dispatcher {
	return &Dispatcher{doc: doc}
}

// Apply processes operations in the order received. One failing operation
// does not abort the rest: its outcome records the error and the loop
// continues.
func (d *Dispatcher) Apply(ctx context.Context, operations []Operation) []Outcome {
	outcomes := make([]Outcome, 0, len(operations))

	for _, op := range operations {
		outcome := d.applyOne(ctx, op)
		if outcome.Status == StatusFailed && config.DebugLog != nil {
			config.DebugLog.Printf("[Tools] operation %s failed: %v", op.Name, outcome.Err)
		}
		if outcome.Status == StatusUnsupported && config.DebugLog != nil {
			config.DebugLog.Printf("[Tools] unsupported operation %s: %s", op.Name, outcome.Detail)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (d *Dispatcher) applyOne(ctx context.Context, op Operation) Outcome {
	switch op.Name {
	case ToolTextEditor:
		if op.TextEditor == nil {
			return Outcome{Operation: op, Status: StatusUnsupported, Detail: "missing input"}
		}
		return d.applyTextEditor(ctx, op)

	case ToolDocumentWriter:
		if op.DocumentWriter == nil {
			return Outcome{Operation: op, Status: StatusUnsupported, Detail: "missing input"}
		}
		return d.applyDocumentWriter(ctx, op)

	default:
		return Outcome{
			Operation: op,
			Status:    StatusUnsupported,
			Detail:    fmt.Sprintf("unknown tool %q", op.Name),
		}
	}
}

func (d *Dispatcher) applyTextEditor(ctx context.Context, op Operation) Outcome {
	in := op.TextEditor

	switch in.Command {
	case CommandView:
		// Informational only; the model already received the snapshot
		return Outcome{Operation: op, Status: StatusSkipped, Detail: "view is a no-op"}

	case CommandStrReplace:
		if in.OldStr == "" || in.NewStr == "" {
			return Outcome{
				Operation: op,
				Status:    StatusUnsupported,
				Detail:    "str_replace requires old_str and new_str",
			}
		}

		count, err := d.doc.FindAndReplace(ctx, in.OldStr, in.NewStr)
		if err != nil {
			return Outcome{Operation: op, Status: StatusFailed, Err: err}
		}
		if count == 0 {
			return Outcome{
				Operation: op,
				Status:    StatusSkipped,
				Detail:    fmt.Sprintf("%q was not found in the document", in.OldStr),
			}
		}

		return Outcome{
			Operation:    op,
			Status:       StatusApplied,
			Confirmation: fmt.Sprintf("I've replaced %q with %q in your document.", in.OldStr, in.NewStr),
		}

	default:
		return Outcome{
			Operation: op,
			Status:    StatusUnsupported,
			Detail:    fmt.Sprintf("unknown text_editor command %q", in.Command),
		}
	}
}

func (d *Dispatcher) applyDocumentWriter(ctx context.Context, op Operation) Outcome {
	in := op.DocumentWriter

	if in.Content == "" {
		return Outcome{
			Operation: op,
			Status:    StatusUnsupported,
			Detail:    "document_writer requires content",
		}
	}

	// Position defaults to end, formatting to no changes
	position, err := document.ParsePosition(in.Position)
	if err != nil {
		return Outcome{Operation: op, Status: StatusUnsupported, Detail: err.Error()}
	}

	if err := d.doc.InsertParagraphs(ctx, in.Content, position, in.Formatting); err != nil {
		return Outcome{Operation: op, Status: StatusFailed, Err: err}
	}

	return Outcome{
		Operation:    op,
		Status:       StatusApplied,
		Confirmation: "I've added the requested content to your document while preserving formatting.",
	}
}
