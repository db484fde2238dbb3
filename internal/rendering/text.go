package rendering

import (
	"strings"
	"unicode"
)

// TextNodeKind distinguishes paragraphs from bullet lists in a text block
type TextNodeKind string

// Text node kinds
const (
	NodeParagraph TextNodeKind = "paragraph"
	NodeList      TextNodeKind = "list"
)

// TextNode is a paragraph or a run of consecutive list items
type TextNode struct {
	Kind  TextNodeKind
	Text  string
	Items []string
}

// IsList reports whether the node is a bullet list
func (n TextNode) IsList() bool {
	return n.Kind == NodeList
}

const listMarker = "- "

// ParseTextBlock splits free text into display nodes. Lines starting with "- " become
// list items (consecutive items share one list), other non-blank lines become
// paragraphs and blank lines are dropped. A marker with nothing after it ("- ") is an
// empty list item and is skipped; a lone "-" is a paragraph.
func ParseTextBlock(text string) []TextNode {
	var nodes []TextNode
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if item, ok := strings.CutPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), listMarker); ok {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if n := len(nodes); n > 0 && nodes[n-1].IsList() {
				nodes[n-1].Items = append(nodes[n-1].Items, item)
				continue
			}
			nodes = append(nodes, TextNode{Kind: NodeList, Items: []string{item}})
			continue
		}

		nodes = append(nodes, TextNode{Kind: NodeParagraph, Text: trimmed})
	}
	return nodes
}

// JoinLines builds a text block from individual lines
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
