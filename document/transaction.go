package document

import (
	"context"
	"strings"

	"draftpane/config"
)

// InsertLocation names where a paragraph is inserted within the body.
type InsertLocation string

const (
	LocationStart InsertLocation = "start"
	LocationEnd   InsertLocation = "end"
)

// Tx is a scoped transaction over the document body. The callback passed to
// Run stages mutations against a working copy; nothing is visible (in memory
// or on disk) until Run commits, and a commit happens exactly once per Run.
type Tx struct {
	paragraphs []Paragraph
}

// Run executes fn inside a transaction. On a nil error the staged body is
// committed atomically; on error the document is left untouched. Two
// separate Run calls are not transactionally related.
func (d *Document) Run(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &Tx{paragraphs: cloneParagraphs(d.paragraphs)}

	if err := fn(tx); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Document] transaction aborted: %v", err)
		}
		return err
	}

	before := textOf(d.paragraphs)

	if err := d.write(tx.paragraphs); err != nil {
		return err
	}
	d.paragraphs = tx.paragraphs

	if config.Debug && config.DebugLog != nil {
		logChange(before, textOf(d.paragraphs))
	}

	return nil
}

// Text returns the staged body text.
func (tx *Tx) Text() string {
	return textOf(tx.paragraphs)
}

// Paragraphs returns the staged paragraphs.
func (tx *Tx) Paragraphs() []Paragraph {
	return tx.paragraphs
}

// Clear removes every paragraph from the staged body.
func (tx *Tx) Clear() {
	tx.paragraphs = nil
}

// InsertParagraph stages a new paragraph at the start or end of the body and
// returns a pointer to it so formatting can be applied before commit.
func (tx *Tx) InsertParagraph(text string, loc InsertLocation) *Paragraph {
	p := Paragraph{Text: text}
	if loc == LocationStart {
		tx.paragraphs = append([]Paragraph{p}, tx.paragraphs...)
		return &tx.paragraphs[0]
	}
	tx.paragraphs = append(tx.paragraphs, p)
	return &tx.paragraphs[len(tx.paragraphs)-1]
}

// ReplaceText replaces every occurrence of old with new across the staged
// paragraphs. The search is case-sensitive, literal and in place: the
// surrounding paragraph and its formatting are untouched. Returns the number
// of occurrences replaced.
func (tx *Tx) ReplaceText(old, new string) int {
	if old == "" {
		return 0
	}

	count := 0
	for i := range tx.paragraphs {
		n := strings.Count(tx.paragraphs[i].Text, old)
		if n == 0 {
			continue
		}
		tx.paragraphs[i].Text = strings.ReplaceAll(tx.paragraphs[i].Text, old, new)
		count += n
	}
	return count
}
