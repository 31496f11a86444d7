// ABOUTME: Tests for the JSON interchange format
// ABOUTME: Verifies round-trips, snapshot handling, validation, and filenames

package docformat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nainya/doctree/pkg/document"
	"github.com/nainya/doctree/pkg/fields"
	"github.com/nainya/doctree/pkg/section"
)

var exportNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleTree() []section.Node {
	return []section.Node{
		{
			ID:            "s1",
			Title:         "Greeting",
			Categories:    []string{"general"},
			StartPosition: 0,
			EndPosition:   5,
			CustomFields:  fields.FromPairs("importance", "medium"),
			Children: []section.Node{
				{
					ID:            "s2",
					Title:         "Target",
					Categories:    []string{"general"},
					StartPosition: 6,
					EndPosition:   11,
				},
			},
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	doc := document.Document{ID: "d1", Title: "Hello Doc", Version: "2.0"}
	content := "Hello world"
	tree := sampleTree()

	ex := Build(doc, content, tree, exportNow)
	data, err := Encode(ex)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	stripped := StripSnapshots(back.Sections)

	if !reflect.DeepEqual(stripped, tree) {
		t.Errorf("stripped round-trip tree differs:\n got %+v\nwant %+v", stripped, tree)
	}
	if back.Content != content {
		t.Errorf("content differs: %q", back.Content)
	}
	if back.Document.Title != "Hello Doc" {
		t.Errorf("document metadata differs: %+v", back.Document)
	}
}

func TestBuildAttachesSnapshots(t *testing.T) {
	ex := Build(document.Document{Title: "T"}, "Hello world", sampleTree(), exportNow)

	if ex.Sections[0].HighlightedContent == nil || *ex.Sections[0].HighlightedContent != "Hello" {
		t.Errorf("expected snapshot 'Hello', got %v", ex.Sections[0].HighlightedContent)
	}
	child := ex.Sections[0].Children[0]
	if child.HighlightedContent == nil || *child.HighlightedContent != "world" {
		t.Errorf("expected child snapshot 'world', got %v", child.HighlightedContent)
	}
}

func TestBuildDoesNotMutateInputTree(t *testing.T) {
	tree := sampleTree()
	Build(document.Document{}, "Hello world", tree, exportNow)

	if tree[0].HighlightedContent != nil {
		t.Error("Build attached a snapshot to the caller's tree")
	}
}

func TestSnapshotUndefinedRangeIsEmptyString(t *testing.T) {
	tree := []section.Node{{ID: "z", StartPosition: 3, EndPosition: 3}}
	out := AttachSnapshots(tree, "abcdef")

	if out[0].HighlightedContent == nil || *out[0].HighlightedContent != "" {
		t.Errorf("undefined range should export an explicit empty snapshot, got %v",
			out[0].HighlightedContent)
	}
}

func TestSnapshotClampsStaleEnd(t *testing.T) {
	tree := []section.Node{{ID: "a", StartPosition: 2, EndPosition: 100}}
	out := AttachSnapshots(tree, "short")

	if *out[0].HighlightedContent != "ort" {
		t.Errorf("expected clamped snapshot 'ort', got %q", *out[0].HighlightedContent)
	}
	if out[0].EndPosition != 100 {
		t.Error("stored end position must stay untouched")
	}
}

func TestSnapshotUsesRuneOffsets(t *testing.T) {
	tree := []section.Node{{ID: "a", StartPosition: 0, EndPosition: 5}}
	out := AttachSnapshots(tree, "héllo wörld")

	if *out[0].HighlightedContent != "héllo" {
		t.Errorf("expected 'héllo', got %q", *out[0].HighlightedContent)
	}
}

func TestMetadataBlock(t *testing.T) {
	ex := Build(document.Document{Title: "T"}, "Hello world", sampleTree(), exportNow)

	if ex.Metadata.TotalSections != 2 {
		t.Errorf("expected totalSections 2, got %d", ex.Metadata.TotalSections)
	}
	if ex.Metadata.Version != DefaultVersion {
		t.Errorf("expected fallback version %q, got %q", DefaultVersion, ex.Metadata.Version)
	}
	if ex.Metadata.ExportDate != "2024-06-01T12:00:00Z" {
		t.Errorf("unexpected export date %q", ex.Metadata.ExportDate)
	}
}

func TestStrippedNodesOmitSnapshotField(t *testing.T) {
	ex := Build(document.Document{}, "Hello world", sampleTree(), exportNow)

	withSnap, _ := json.Marshal(ex.Sections[0])
	if !strings.Contains(string(withSnap), "highlightedContent") {
		t.Error("export should serialize the snapshot field")
	}

	stripped := StripSnapshots(ex.Sections)
	withoutSnap, _ := json.Marshal(stripped[0])
	if strings.Contains(string(withoutSnap), "highlightedContent") {
		t.Error("stripped nodes should not serialize the snapshot field")
	}
}

func TestDecodeRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"missing sections", `{"document":{"id":"d"}}`},
		{"missing document", `{"sections":[]}`},
		{"empty object", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.body)); err != ErrInvalidFormat {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

func TestDecodeAcceptsMissingContent(t *testing.T) {
	ex, err := Decode([]byte(`{"document":{"id":"d"},"sections":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Content != "" {
		t.Errorf("missing content should default to empty, got %q", ex.Content)
	}
}

func TestFilenameDerivation(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello_world.json"},
		{"Q3 Report (final)!", "q3_report__final__.json"},
		{"", "document.json"},
		{"already_clean123", "already_clean123.json"},
	}
	for _, tc := range cases {
		if got := Filename(tc.title); got != tc.want {
			t.Errorf("Filename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestExportFilenameEmbedsDate(t *testing.T) {
	got := ExportFilename("My Doc", exportNow)
	if got != "my_doc_2024-06-01.json" {
		t.Errorf("unexpected export filename %q", got)
	}
}

func TestFileRoundTripStripsSnapshots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	ex := Build(document.Document{ID: "d1", Title: "T"}, "Hello world", sampleTree(), exportNow)
	if err := WriteFile(path, ex); err != nil {
		t.Fatalf("write: %v", err)
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(back.Sections, sampleTree()) {
		t.Error("imported sections should equal the original stripped tree")
	}
}

func TestReadFileInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	os.WriteFile(path, []byte(`{"content":"x"}`), 0644)

	if _, err := ReadFile(path); err != ErrInvalidFormat {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
