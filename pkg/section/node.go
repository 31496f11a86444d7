// ABOUTME: Section node data model for structurally annotated documents
// ABOUTME: Nodes address document content by rune offsets and nest freely

package section

import "github.com/nainya/doctree/pkg/fields"

// Node is one user-defined region of interest in a document. Nodes form a
// forest; a node owns its children exclusively. Ranges are independently
// user-assigned: a parent's range is not required to contain its children's.
type Node struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Categories    []string   `json:"categories"`
	StartPosition int        `json:"startPosition"`
	EndPosition   int        `json:"endPosition"`
	CustomFields  fields.Map `json:"customFields"`
	Children      []Node     `json:"children"`

	// HighlightedContent is a derived snapshot of the covered text, attached
	// on export only. It is never authoritative and is stripped on load.
	HighlightedContent *string `json:"highlightedContent,omitempty"`
}

// HasRange reports whether the node covers a highlightable range.
// A range is defined iff startPosition < endPosition; positions are not
// bounds-checked against the current content length.
func (n *Node) HasRange() bool {
	return n.StartPosition < n.EndPosition
}

// Span returns the node's range as a Span.
func (n *Node) Span() Span {
	return Span{Start: n.StartPosition, End: n.EndPosition}
}

// Clone returns a deep copy of the node and its subtree.
func (n Node) Clone() Node {
	out := n
	if n.Categories != nil {
		out.Categories = make([]string, len(n.Categories))
		copy(out.Categories, n.Categories)
	}
	out.CustomFields = n.CustomFields.Clone()
	if n.Children != nil {
		out.Children = Clone(n.Children)
	}
	if n.HighlightedContent != nil {
		hc := *n.HighlightedContent
		out.HighlightedContent = &hc
	}
	return out
}

// Clone returns a deep copy of a forest.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
