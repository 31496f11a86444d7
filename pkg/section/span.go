// ABOUTME: Half-open rune-offset ranges into document content
// ABOUTME: Defines validity and paint-time clamping semantics

package section

// Span is a half-open [Start, End) range of rune offsets into a document's
// content string. Offsets count characters, not bytes.
type Span struct {
	Start int
	End   int
}

// Valid reports whether the span covers at least one character.
// Spans with Start >= End are "undefined" and contribute no highlight.
func (s Span) Valid() bool {
	return s.Start < s.End
}

// ClampEnd caps End at length without touching the stored positions on the
// owning node. Stale ranges that outlive a content edit are clamped only at
// paint and snapshot time.
func (s Span) ClampEnd(length int) Span {
	if s.End > length {
		s.End = length
	}
	return s
}
