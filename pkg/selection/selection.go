// ABOUTME: Translates user text selections into validated content offsets
// ABOUTME: Supports raw-edit offsets and rendered-view selections

package selection

import (
	"errors"
	"unicode/utf8"

	"github.com/nainya/doctree/pkg/section"
)

var (
	// ErrNoSectionFocused is returned when no section is selected for editing.
	ErrNoSectionFocused = errors.New("no section selected")

	// ErrNoTextSelected is returned for empty or collapsed selections.
	ErrNoTextSelected = errors.New("no text selected")

	// ErrOutsideContent is returned when the selection lies outside the
	// recognized content container.
	ErrOutsideContent = errors.New("selection not in content area")
)

// Raw is a selection reported directly as character offsets into a
// plain-text editing surface that mirrors the content 1:1.
type Raw struct {
	Start int
	End   int
}

// Rendered is a selection inside the segmented rendering. Offsets are not
// known directly; they are recovered from the visible text preceding the
// selection and the selected text itself, so segment boundaries and markup
// stay transparent to offset computation.
type Rendered struct {
	Preceding string // visible text before the selection start
	Selected  string // the selected visible text
	InContent bool   // whether the selection lies within the content container
}

// ResolveRaw validates a raw-edit selection for the focused section and
// returns its content span. Offsets are used as-is.
func ResolveRaw(focusedID string, sel Raw) (section.Span, error) {
	if focusedID == "" {
		return section.Span{}, ErrNoSectionFocused
	}
	if sel.Start < 0 || sel.End <= sel.Start {
		return section.Span{}, ErrNoTextSelected
	}
	return section.Span{Start: sel.Start, End: sel.End}, nil
}

// ResolveRendered recovers content offsets from a rendered-view selection:
// start is the rune count of the preceding visible text, end adds the
// selection's rune length. Only visible characters count.
func ResolveRendered(focusedID string, sel Rendered) (section.Span, error) {
	if focusedID == "" {
		return section.Span{}, ErrNoSectionFocused
	}
	if sel.Selected == "" {
		return section.Span{}, ErrNoTextSelected
	}
	if !sel.InContent {
		return section.Span{}, ErrOutsideContent
	}
	start := utf8.RuneCountInString(sel.Preceding)
	end := start + utf8.RuneCountInString(sel.Selected)
	return section.Span{Start: start, End: end}, nil
}
