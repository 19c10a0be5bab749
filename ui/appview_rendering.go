package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"draftpane/config"
	appmodel "draftpane/model"
	"draftpane/storage"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.dataModel.Messages) == 0 && !a.dataModel.Busy() {
		a.viewport.SetContent("No messages yet. Ask about your document!")
		return
	}

	var content strings.Builder

	for _, msg := range a.dataModel.Messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		var senderStyle = DimStyle
		var senderName string
		switch msg.Sender {
		case storage.SenderUser:
			senderStyle = UserStyle
			senderName = "You"
		case storage.SenderAssistant:
			senderStyle = AssistantStyle
			senderName = "Assistant"
		default:
			senderName = "System"
		}

		sender := senderStyle.Render(senderName)

		rendered := msg.Rendered
		if rendered == "" {
			rendered = msg.Content
		}

		// User messages with vertical bar formatting
		if msg.Sender == storage.SenderUser {
			content.WriteString(formatUserMessage(timestamp, sender, rendered))
			continue
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, sender, rendered))
	}

	if a.dataModel.Busy() {
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		sender := AssistantStyle.Render("Assistant")
		content.WriteString(fmt.Sprintf("%s %s\n%s %s\n\n",
			timestamp, sender, a.loadingSpinner.View(), "Waiting for response..."))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, sender, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, sender))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

// renderPendingMarkdown schedules async renders for every message that has
// not been rendered yet. Rendered is set to the raw content first so a
// second scan does not schedule the same message twice.
func (a *AppView) renderPendingMarkdown() tea.Cmd {
	var cmds []tea.Cmd

	for i := range a.dataModel.Messages {
		if a.dataModel.Messages[i].Rendered != "" {
			continue
		}
		a.dataModel.Messages[i].Rendered = a.dataModel.Messages[i].Content
		cmds = append(cmds, a.renderMarkdownAsync(i, a.dataModel.Messages[i].Content))
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()

		// Strip markdown link syntax [text](url) so links show as plain URLs
		content = preprocessLinks(content)

		// Disable autolink so terminal emulators handle URL detection
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := fixMarkdownLinks(fixInlineCode(string(rendered)))

		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] rendered markdown for message %d in %v", messageIndex, time.Since(start))
		}

		return appmodel.MarkdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     processed,
		}
	}
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")

	for i, line := range lines {
		// Skip code blocks (they carry the ┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}

	return strings.Join(lines, "\n")
}
