package provider

import "fmt"

// systemPrompt steers the model toward the two document tools. The
// formatting instructions matter: without them models tend to rewrite whole
// documents for one-word edits and collapse paragraph structure.
const systemPrompt = "You are a helpful document assistant. You can view document content and make changes to it. " +
	"You have the following tools available: " +
	"1) text_editor - for replacing text in the document, " +
	"2) document_writer - for writing content directly to the document. " +
	"Always use document_writer when you need to add substantial content to the document. " +
	"IMPORTANT: When making small changes like updating dates or specific text, always use text_editor with str_replace to preserve the existing formatting. " +
	"When using document_writer with replace_all, always preserve the original document structure including paragraph breaks, line spacing, and indentation. " +
	"Never collapse formatted text into a single paragraph when making edits."

// buildUserMessage packs the document snapshot and the user request into the
// single user message sent per round trip. The model sees current content
// without needing a view round trip first.
func buildUserMessage(userText, documentText string) string {
	return fmt.Sprintf("Document content: %s\n\nUser request: %s", documentText, userText)
}
