package tracker

import (
	"encoding/json"
	"strings"
)

// Atlassian Document Format fragments, the only shapes the bot writes or reads.

type adfDoc struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// adfDocument renders one paragraph per line.
func adfDocument(lines []string) adfDoc {
	content := make([]adfNode, 0, len(lines))
	for _, line := range lines {
		content = append(content, adfNode{
			Type:    "paragraph",
			Content: []adfNode{{Type: "text", Text: line}},
		})
	}
	return adfDoc{Type: "doc", Version: 1, Content: content}
}

// DescriptionText flattens a description field that may arrive as a plain
// string or as a rich-text document, depending on the tracker version.
func DescriptionText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var node adfNode
	if err := json.Unmarshal(raw, &node); err == nil {
		return flattenADF(node)
	}
	return ""
}

// flattenADF collects text nodes in document order, one line per block.
func flattenADF(n adfNode) string {
	if n.Type == "text" {
		return n.Text
	}
	parts := make([]string, 0, len(n.Content))
	for _, child := range n.Content {
		if s := flattenADF(child); s != "" {
			parts = append(parts, s)
		}
	}
	sep := ""
	if n.Type == "doc" {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}
