package document

import (
	"context"
	"fmt"
	"strings"

	"draftpane/config"
)

// Position names where inserted content goes relative to the current body.
type Position string

const (
	PositionStart      Position = "start"
	PositionEnd        Position = "end"
	PositionReplaceAll Position = "replace_all"
)

// ParsePosition validates a position string, defaulting to end when empty.
func ParsePosition(s string) (Position, error) {
	switch Position(s) {
	case PositionStart, PositionEnd, PositionReplaceAll:
		return Position(s), nil
	case "":
		return PositionEnd, nil
	default:
		return "", fmt.Errorf("unknown position %q", s)
	}
}

// ReadAll returns the full document text.
func (d *Document) ReadAll(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.Text(), nil
}

// InsertParagraphs splits content on line boundaries and inserts one
// paragraph per line at the given position, preserving blank lines as empty
// paragraphs so multi-paragraph structure is never collapsed. replace_all
// clears the body first. Formatting fields are applied per-field only when
// present; blank spacer lines stay unformatted.
func (d *Document) InsertParagraphs(ctx context.Context, content string, position Position, formatting Formatting) error {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	err := d.Run(ctx, func(tx *Tx) error {
		if position == PositionReplaceAll {
			tx.Clear()
		}

		loc := LocationEnd
		if position == PositionStart {
			loc = LocationStart
			// Inserting the block line by line at the start would stack the
			// lines in reverse; walk them backwards so the block reads in
			// source order.
			for i := len(lines) - 1; i >= 0; i-- {
				insertLine(tx, lines[i], loc, formatting)
			}
			return nil
		}

		for _, line := range lines {
			insertLine(tx, line, loc, formatting)
		}
		return nil
	})
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Document] InsertParagraphs failed: %v", err)
		}
		return fmt.Errorf("failed to insert paragraphs: %w", err)
	}

	return nil
}

func insertLine(tx *Tx, line string, loc InsertLocation, formatting Formatting) {
	if strings.TrimSpace(line) == "" {
		// Blank line: keep an empty paragraph to preserve structure
		tx.InsertParagraph("", loc)
		return
	}

	p := tx.InsertParagraph(line, loc)
	formatting.ApplyTo(&p.Font)
}

// FindAndReplace replaces every occurrence of oldText with newText. The
// search is case-sensitive, non-whole-word and literal; replacement happens
// in place so surrounding formatting is inherited. Returns the number of
// occurrences replaced.
func (d *Document) FindAndReplace(ctx context.Context, oldText, newText string) (int, error) {
	if oldText == "" {
		return 0, fmt.Errorf("search text must not be empty")
	}

	count := 0
	err := d.Run(ctx, func(tx *Tx) error {
		count = tx.ReplaceText(oldText, newText)
		return nil
	})
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Document] FindAndReplace failed: %v", err)
		}
		return 0, fmt.Errorf("failed to replace text: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Document] replaced %d occurrence(s) of %q", count, oldText)
	}

	return count, nil
}

// AppendResponse appends an assistant reply as a plain paragraph at the end
// of the document, preceded by a blank spacer paragraph. The paragraph gets
// fixed formatting: plain black 11-point text.
func (d *Document) AppendResponse(ctx context.Context, text string) error {
	err := d.Run(ctx, func(tx *Tx) error {
		tx.InsertParagraph("", LocationEnd)
		p := tx.InsertParagraph(text, LocationEnd)
		p.Font = Font{Color: "black", Size: 11}
		return nil
	})
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Document] AppendResponse failed: %v", err)
		}
		return fmt.Errorf("failed to append response: %w", err)
	}

	return nil
}
