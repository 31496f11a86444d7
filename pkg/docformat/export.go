// ABOUTME: Lossless JSON interchange format for annotated documents
// ABOUTME: Combines metadata, raw content, section tree, and export metadata

package docformat

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/nainya/doctree/pkg/document"
	"github.com/nainya/doctree/pkg/section"
)

// ErrInvalidFormat is returned for payloads missing the required document
// and sections fields.
var ErrInvalidFormat = errors.New("invalid document format")

// DefaultVersion is used when a document carries no version of its own.
const DefaultVersion = "1.0"

// Export is the wire and storage shape for a complete annotated document.
type Export struct {
	Document document.Document `json:"document"`
	Content  string            `json:"content"`
	Sections []section.Node    `json:"sections"`
	Metadata Meta              `json:"metadata"`
}

// Meta is the derived export metadata block.
type Meta struct {
	ExportDate    string `json:"exportDate"`
	Version       string `json:"version"`
	TotalSections int    `json:"totalSections"`
}

// Build assembles an Export from an editing session's state. Sections get
// derived highlightedContent snapshots attached; the input tree is not
// modified.
func Build(doc document.Document, content string, sections []section.Node, now time.Time) *Export {
	version := doc.Version
	if version == "" {
		version = DefaultVersion
	}
	return &Export{
		Document: doc.Clone(),
		Content:  content,
		Sections: AttachSnapshots(sections, content),
		Metadata: Meta{
			ExportDate:    now.UTC().Format(time.RFC3339),
			Version:       version,
			TotalSections: section.Count(sections),
		},
	}
}

// AttachSnapshots returns a copy of the forest with every node's
// highlightedContent set to the substring its range covers. Undefined ranges
// and empty content yield an explicit empty snapshot. Stale end offsets are
// clamped against the content, leaving the stored positions untouched.
func AttachSnapshots(nodes []section.Node, content string) []section.Node {
	runes := []rune(content)
	out := section.Clone(nodes)
	attach(out, runes)
	return out
}

func attach(nodes []section.Node, runes []rune) {
	for i := range nodes {
		snapshot := ""
		if nodes[i].HasRange() && len(runes) > 0 {
			span := nodes[i].Span().ClampEnd(len(runes))
			if span.Start < len(runes) && span.Valid() {
				snapshot = string(runes[span.Start:span.End])
			}
		}
		nodes[i].HighlightedContent = &snapshot
		attach(nodes[i].Children, runes)
	}
}

// StripSnapshots returns a copy of the forest with every derived
// highlightedContent removed. Snapshots are a convenience for consumers and
// are never trusted on load.
func StripSnapshots(nodes []section.Node) []section.Node {
	out := section.Clone(nodes)
	strip(out)
	return out
}

func strip(nodes []section.Node) {
	for i := range nodes {
		nodes[i].HighlightedContent = nil
		strip(nodes[i].Children)
	}
}

// Decode parses an Export payload, rejecting bodies that lack a document or
// sections field. Snapshots are left as-is; callers loading a document into
// an editing session strip them with StripSnapshots.
func Decode(data []byte) (*Export, error) {
	var probe struct {
		Document json.RawMessage `json:"document"`
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ErrInvalidFormat
	}
	if probe.Document == nil || probe.Sections == nil {
		return nil, ErrInvalidFormat
	}
	var ex Export
	if err := json.Unmarshal(data, &ex); err != nil {
		return nil, ErrInvalidFormat
	}
	return &ex, nil
}

// Encode marshals an Export with stable two-space indentation.
func Encode(ex *Export) ([]byte, error) {
	return json.MarshalIndent(ex, "", "  ")
}

// Filename derives a store filename from a document title: every
// non-alphanumeric character becomes an underscore, the result is
// lower-cased and suffixed with .json.
func Filename(title string) string {
	if title == "" {
		title = "document"
	}
	return sanitize(title) + ".json"
}

// ExportFilename is the local-download variant, which embeds the export date.
func ExportFilename(title string, now time.Time) string {
	if title == "" {
		title = "document"
	}
	return sanitize(title) + "_" + now.Format(document.DateFormat) + ".json"
}

func sanitize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			return '_'
		}
		return r
	}, s)
	return strings.ToLower(mapped)
}
