// Package document is the side panel's view of the open document: a
// paragraph list with per-paragraph character formatting, persisted to a
// file. All mutations go through a scoped transaction (see Run) that commits
// exactly once, mirroring the batch-and-sync contract of word-processor
// host APIs.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"draftpane/config"
)

// Font is the resolved character formatting of a paragraph.
type Font struct {
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Color     string  `json:"color,omitempty"`
	Size      float64 `json:"size,omitempty"`
}

// Formatting carries requested formatting changes. A nil/zero field means
// "leave the current formatting untouched", not "clear it".
type Formatting struct {
	Bold      *bool   `json:"bold,omitempty"`
	Italic    *bool   `json:"italic,omitempty"`
	Underline *bool   `json:"underline,omitempty"`
	Color     string  `json:"color,omitempty"`
	Size      float64 `json:"size,omitempty"`
}

// ApplyTo applies the present fields to a font.
func (f Formatting) ApplyTo(font *Font) {
	if f.Bold != nil {
		font.Bold = *f.Bold
	}
	if f.Italic != nil {
		font.Italic = *f.Italic
	}
	if f.Underline != nil {
		font.Underline = *f.Underline
	}
	if f.Color != "" {
		font.Color = f.Color
	}
	if f.Size != 0 {
		font.Size = f.Size
	}
}

// IsZero reports whether no formatting change is requested.
func (f Formatting) IsZero() bool {
	return f.Bold == nil && f.Italic == nil && f.Underline == nil &&
		f.Color == "" && f.Size == 0
}

// Paragraph is one body paragraph. An empty Text is a blank paragraph and is
// preserved as such.
type Paragraph struct {
	Text string `json:"text"`
	Font Font   `json:"font,omitempty"`
}

type documentFile struct {
	Schema     int         `json:"schema"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

const fileSchema = 1

// Document is the single open document. The native ".dpd" format is JSON
// with formatting; any other extension is treated as plain text, one
// paragraph per line, with formatting held in memory only.
type Document struct {
	mu         sync.Mutex
	path       string
	plainText  bool
	paragraphs []Paragraph
}

// Open loads the document at path, creating an empty one when the file does
// not exist yet.
func Open(path string) (*Document, error) {
	d := &Document{
		path:      path,
		plainText: strings.ToLower(filepath.Ext(path)) != ".dpd",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	if d.plainText {
		d.paragraphs = paragraphsFromText(string(data))
		return d, nil
	}

	var df documentFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	d.paragraphs = df.Paragraphs

	return d, nil
}

// Path returns the document's file path.
func (d *Document) Path() string {
	return d.path
}

// Name returns the document's base file name.
func (d *Document) Name() string {
	return filepath.Base(d.path)
}

// Text returns the committed body text, paragraphs joined with newlines.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return textOf(d.paragraphs)
}

func textOf(paragraphs []Paragraph) string {
	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n")
}

func paragraphsFromText(text string) []Paragraph {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	paragraphs := make([]Paragraph, len(lines))
	for i, line := range lines {
		paragraphs[i] = Paragraph{Text: line}
	}
	return paragraphs
}

func cloneParagraphs(paragraphs []Paragraph) []Paragraph {
	cloned := make([]Paragraph, len(paragraphs))
	copy(cloned, paragraphs)
	return cloned
}

// write persists the given paragraphs atomically: temp file in the same
// directory, then rename over the target.
func (d *Document) write(paragraphs []Paragraph) error {
	var data []byte
	if d.plainText {
		data = []byte(textOf(paragraphs))
	} else {
		var err error
		data, err = json.MarshalIndent(documentFile{
			Schema:     fileSchema,
			Paragraphs: paragraphs,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".draftpane-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set document permissions: %w", err)
	}

	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace document: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Document] committed %d paragraphs to %s", len(paragraphs), d.path)
	}

	return nil
}
