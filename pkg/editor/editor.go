// ABOUTME: Editing session owning document metadata, content, and sections
// ABOUTME: Exposes the mutation commands that keep the model consistent

package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/nainya/doctree/pkg/docformat"
	"github.com/nainya/doctree/pkg/document"
	"github.com/nainya/doctree/pkg/fields"
	"github.com/nainya/doctree/pkg/highlight"
	"github.com/nainya/doctree/pkg/section"
	"github.com/nainya/doctree/pkg/selection"
)

// Default values for freshly created sections.
const (
	DefaultRootTitle  = "New Section"
	DefaultChildTitle = "New Subsection"
	DefaultCategory   = "general"
)

// Editor is a single-session editing surface over one document. All
// mutations happen synchronously through its commands; derived views are
// pure recomputations over the current state. UI-only state such as the
// focused section or expansion sets stays with the embedding application,
// which passes section ids in as plain parameters.
type Editor struct {
	doc      document.Document
	content  string
	sections []section.Node

	now   func() time.Time
	newID func() string
}

// New creates an empty editing session with a fresh document identity.
func New() *Editor {
	e := &Editor{
		now:   time.Now,
		newID: uuid.NewString,
	}
	e.doc = document.Document{
		ID:          e.newID(),
		DateCreated: e.now().Format(document.DateFormat),
	}
	return e
}

// Load creates a session from a decoded export. Derived snapshots are
// stripped so the tree holds authoritative state only.
func Load(ex *docformat.Export) *Editor {
	e := New()
	e.doc = ex.Document.Clone()
	e.content = ex.Content
	e.sections = docformat.StripSnapshots(ex.Sections)
	return e
}

// Document returns a copy of the document metadata.
func (e *Editor) Document() document.Document {
	return e.doc.Clone()
}

// Content returns the document text.
func (e *Editor) Content() string {
	return e.content
}

// Sections returns a deep copy of the section forest.
func (e *Editor) Sections() []section.Node {
	return section.Clone(e.sections)
}

// SectionCount returns the total number of sections.
func (e *Editor) SectionCount() int {
	return section.Count(e.sections)
}

// SetContent replaces the document text. Section ranges are deliberately
// left untouched; stale end offsets are clamped at paint and snapshot time
// only, never rewritten in the stored tree.
func (e *Editor) SetContent(content string) {
	e.content = content
	e.doc.Touch(e.now())
}

// UpdateMetadata applies fn to the document metadata and records the
// modification date.
func (e *Editor) UpdateMetadata(fn func(*document.Document)) {
	fn(&e.doc)
	e.doc.Touch(e.now())
}

// AddDocumentCategory adds a document-level category (set semantics).
func (e *Editor) AddDocumentCategory(category string) {
	e.doc.AddCategory(category)
	e.doc.Touch(e.now())
}

// RemoveDocumentCategory removes a document-level category; absent is a
// no-op.
func (e *Editor) RemoveDocumentCategory(category string) {
	e.doc.RemoveCategory(category)
	e.doc.Touch(e.now())
}

// AddDocumentField inserts a document-level custom field, overwriting
// silently on key collision.
func (e *Editor) AddDocumentField(key, value string) {
	e.doc.SetCustomField(key, value)
	e.doc.Touch(e.now())
}

// UpdateDocumentField renames and updates a document-level custom field.
func (e *Editor) UpdateDocumentField(oldKey, newKey, value string) {
	e.doc.UpdateCustomField(oldKey, newKey, value)
	e.doc.Touch(e.now())
}

// DeleteDocumentField removes a document-level custom field if present.
func (e *Editor) DeleteDocumentField(key string) {
	e.doc.DeleteCustomField(key)
	e.doc.Touch(e.now())
}

// AddSection creates a new section with default title, category, and custom
// fields and an undefined range. An empty parentID adds a new root;
// otherwise the section is appended under the parent. A missing parent
// leaves the tree unchanged. The created node is returned either way so
// the caller can mark it expanded.
func (e *Editor) AddSection(parentID string) section.Node {
	title := DefaultRootTitle
	if parentID != "" {
		title = DefaultChildTitle
	}
	node := section.Node{
		ID:         e.newID(),
		Title:      title,
		Categories: []string{DefaultCategory},
		CustomFields: fields.FromPairs(
			"importance", "medium",
			"lastUpdated", e.now().Format(document.DateFormat),
		),
	}
	e.sections = section.AddChild(e.sections, parentID, node)
	return node
}

// DeleteSection removes a section and its entire subtree; an unknown id is
// a silent no-op.
func (e *Editor) DeleteSection(id string) {
	e.sections = section.DeleteByID(e.sections, id)
}

// RenameSection sets a section's title and nothing else.
func (e *Editor) RenameSection(id, title string) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		n.Title = title
		return n
	})
}

// SetSectionRange sets a section's content range. Positions are stored
// verbatim; no clamping against the current content length is applied.
func (e *Editor) SetSectionRange(id string, start, end int) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		n.StartPosition = start
		n.EndPosition = end
		return n
	})
}

// AddSectionCategory adds a category to a section (set semantics).
func (e *Editor) AddSectionCategory(id, category string) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		for _, c := range n.Categories {
			if c == category {
				return n
			}
		}
		n.Categories = append(n.Categories, category)
		return n
	})
}

// RemoveSectionCategory removes a category from a section; absent is a
// no-op.
func (e *Editor) RemoveSectionCategory(id, category string) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		for i, c := range n.Categories {
			if c == category {
				n.Categories = append(n.Categories[:i], n.Categories[i+1:]...)
				break
			}
		}
		return n
	})
}

// AddSectionField inserts a custom field on a section, overwriting silently
// on key collision.
func (e *Editor) AddSectionField(id, key, value string) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		n.CustomFields.Set(key, value)
		return n
	})
}

// UpdateSectionField renames a custom field key (when changed) and sets its
// value. Renaming onto an existing different key silently overwrites it.
func (e *Editor) UpdateSectionField(id, oldKey, newKey, value string) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		n.CustomFields.Rename(oldKey, newKey, value)
		return n
	})
}

// DeleteSectionField removes a custom field from a section if present.
func (e *Editor) DeleteSectionField(id, key string) {
	e.sections = section.UpdateByID(e.sections, id, func(n section.Node) section.Node {
		n.CustomFields.Delete(key)
		return n
	})
}

// ApplyRawSelection resolves a raw-edit selection and assigns the resulting
// range to the focused section. On any rejection no mutation is applied.
func (e *Editor) ApplyRawSelection(focusedID string, sel selection.Raw) (section.Span, error) {
	span, err := selection.ResolveRaw(focusedID, sel)
	if err != nil {
		return section.Span{}, err
	}
	e.SetSectionRange(focusedID, span.Start, span.End)
	return span, nil
}

// ApplyRenderedSelection resolves a rendered-view selection and assigns the
// resulting range to the focused section.
func (e *Editor) ApplyRenderedSelection(focusedID string, sel selection.Rendered) (section.Span, error) {
	span, err := selection.ResolveRendered(focusedID, sel)
	if err != nil {
		return section.Span{}, err
	}
	e.SetSectionRange(focusedID, span.Start, span.End)
	return span, nil
}

// FilterSections returns the tree pruned to nodes matching the free-text
// query (or having a matching descendant). An empty query returns the full
// tree.
func (e *Editor) FilterSections(query string) []section.Node {
	if query == "" {
		return e.Sections()
	}
	return section.Filter(section.Clone(e.sections), func(n section.Node) bool {
		return section.MatchQuery(n, query)
	})
}

// Colors returns the deterministic section color mapping for the current
// tree.
func (e *Editor) Colors() map[string]string {
	return highlight.AssignColors(e.sections)
}

// Segments renders the current content into highlight segments, with the
// focused section winning overlaps.
func (e *Editor) Segments(focusedID string) []highlight.Segment {
	return highlight.Segments(e.content, e.sections, e.Colors(), focusedID)
}

// Preview returns the text a section's range covers, capped at 100
// characters, or "" for undefined ranges.
func (e *Editor) Preview(id string) string {
	n, ok := section.FindByID(e.sections, id)
	if !ok || !n.HasRange() {
		return ""
	}
	runes := []rune(e.content)
	span := n.Span().ClampEnd(len(runes))
	if span.Start >= len(runes) || !span.Valid() {
		return ""
	}
	preview := runes[span.Start:span.End]
	if len(preview) > 100 {
		return string(preview[:100]) + "..."
	}
	return string(preview)
}

// ToExport serializes the session into the interchange format, attaching
// derived snapshots.
func (e *Editor) ToExport() *docformat.Export {
	return docformat.Build(e.doc, e.content, e.sections, e.now())
}
