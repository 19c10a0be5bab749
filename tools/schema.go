// Package tools defines the contract between the hosted model and the
// document: the two callable tools the model may invoke, decoding of tool
// invocations into typed operations, and the dispatcher that applies them.
package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Tool names understood by the dispatcher.
const (
	ToolTextEditor     = "text_editor"
	ToolDocumentWriter = "document_writer"
)

// Declarations returns the tool declarations sent with every model request.
// The schemas are shared between providers; the provider layer converts them
// to the vendor-specific wire format.
func Declarations() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        ToolTextEditor,
			Description: "Tool for viewing and editing document content",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"command": map[string]any{
						"type":        "string",
						"enum":        []any{"view", "str_replace"},
						"description": "The command to execute: 'view' to see document content, 'str_replace' to replace text",
					},
					"old_str": map[string]any{
						"type":        "string",
						"description": "The text to be replaced (only for str_replace command)",
					},
					"new_str": map[string]any{
						"type":        "string",
						"description": "The new text to replace with (only for str_replace command)",
					},
				},
				Required: []string{"command"},
			},
		},
		{
			Name:        ToolDocumentWriter,
			Description: "Tool for writing content directly to the document",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"content": map[string]any{
						"type":        "string",
						"description": "The content to write to the document",
					},
					"position": map[string]any{
						"type":        "string",
						"enum":        []any{"start", "end", "replace_all"},
						"description": "Where to insert the content: 'start' for beginning of document, 'end' for end of document, 'replace_all' to replace entire document content",
					},
					"formatting": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"bold": map[string]any{
								"type":        "boolean",
								"description": "Whether the text should be bold",
							},
							"italic": map[string]any{
								"type":        "boolean",
								"description": "Whether the text should be italic",
							},
							"underline": map[string]any{
								"type":        "boolean",
								"description": "Whether the text should be underlined",
							},
							"color": map[string]any{
								"type":        "string",
								"description": "The color of the text (e.g., 'red', '#FF0000')",
							},
							"size": map[string]any{
								"type":        "number",
								"description": "The font size in points",
							},
						},
					},
				},
				Required: []string{"content", "position"},
			},
		},
	}
}
