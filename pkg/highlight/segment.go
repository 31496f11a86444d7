// ABOUTME: Converts section ranges into a linear, non-overlapping segment list
// ABOUTME: Overlaps resolve by character painting with deterministic ordering

package highlight

import (
	"sort"

	"github.com/nainya/doctree/pkg/section"
)

// Segment is one maximal run of characters sharing identical highlight
// ownership. Unowned runs have empty Color and SectionID. Start and End are
// rune offsets; together the segments partition [0, len(content)) exactly.
type Segment struct {
	Text         string
	Color        string
	SectionID    string
	SectionTitle string
	Start        int
	End          int
}

// ownership of a single character position.
type owner struct {
	id    string
	color string
	title string
}

// Segments paints every valid section range onto a per-character ownership
// array and merges equal runs. The paint order makes overlap resolution
// deterministic: the focused section always paints last and wins any overlap;
// among the rest, a later-starting section overwrites an earlier one.
// Stale ranges past the end of content are clamped at paint time only.
func Segments(content string, nodes []section.Node, colors map[string]string, focusedID string) []Segment {
	runes := []rune(content)
	if len(runes) == 0 {
		return nil
	}

	var painted []section.Node
	for _, n := range section.Flatten(nodes) {
		if n.HasRange() {
			painted = append(painted, n)
		}
	}
	sort.SliceStable(painted, func(i, j int) bool {
		if painted[i].ID == focusedID {
			return false
		}
		if painted[j].ID == focusedID {
			return true
		}
		return painted[i].StartPosition < painted[j].StartPosition
	})

	own := make([]owner, len(runes))
	for _, n := range painted {
		span := n.Span().ClampEnd(len(runes))
		for i := max(span.Start, 0); i < span.End; i++ {
			own[i] = owner{id: n.ID, color: colors[n.ID], title: n.Title}
		}
	}

	var segments []Segment
	start := 0
	cur := own[0]
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && own[i] == cur {
			continue
		}
		segments = append(segments, Segment{
			Text:         string(runes[start:i]),
			Color:        cur.color,
			SectionID:    cur.id,
			SectionTitle: cur.title,
			Start:        start,
			End:          i,
		})
		start = i
		if i < len(runes) {
			cur = own[i]
		}
	}
	return segments
}
