// ABOUTME: Tests for the ordered custom-fields mapping
// ABOUTME: Verifies ordering, JSON round-trips, and rename collisions

package fields

import (
	"encoding/json"
	"testing"
)

func TestSetPreservesInsertionOrder(t *testing.T) {
	var m Map
	m.Set("importance", "medium")
	m.Set("lastUpdated", "2024-01-01")
	m.Set("owner", "alice")

	want := []string{"importance", "lastUpdated", "owner"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSetOverwriteKeepsPosition(t *testing.T) {
	var m Map
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if m.Keys()[0] != "a" {
		t.Errorf("overwritten key should keep its position, got keys %v", m.Keys())
	}
	if v, _ := m.Get("a"); v != "3" {
		t.Errorf("expected overwritten value '3', got %q", v)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	var m Map
	m.Set("a", "1")
	m.Delete("missing")

	if m.Len() != 1 {
		t.Errorf("expected 1 entry after deleting absent key, got %d", m.Len())
	}
}

func TestRenameCollisionOverwrites(t *testing.T) {
	var m Map
	m.Set("a", "1")
	m.Set("b", "2")

	// Renaming a -> b silently replaces b's prior value.
	m.Rename("a", "b", "9")

	if m.Len() != 1 {
		t.Fatalf("expected 1 entry after collision, got %d", m.Len())
	}
	if v, _ := m.Get("b"); v != "9" {
		t.Errorf("expected collided value '9', got %q", v)
	}
	if _, ok := m.Get("a"); ok {
		t.Error("old key should be gone after rename")
	}
}

func TestRenameSameKeyUpdatesValue(t *testing.T) {
	var m Map
	m.Set("a", "1")
	m.Rename("a", "a", "2")

	if v, _ := m.Get("a"); v != "2" {
		t.Errorf("expected '2', got %q", v)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", m.Len())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var m Map
	m.Set("zeta", "last")
	m.Set("alpha", "first")
	m.Set("mid", "dle")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"zeta":"last","alpha":"first","mid":"dle"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back Map
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(m) {
		t.Errorf("round-trip mismatch: %v vs %v", back.Keys(), m.Keys())
	}
}

func TestUnmarshalEmptyObject(t *testing.T) {
	var m Map
	if err := json.Unmarshal([]byte(`{}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty map, got %d entries", m.Len())
	}
}

func TestUnmarshalRejectsNonStringValue(t *testing.T) {
	var m Map
	if err := json.Unmarshal([]byte(`{"a":1}`), &m); err == nil {
		t.Error("expected error for non-string value")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := FromPairs("a", "1", "b", "2")
	c := m.Clone()
	c.Set("a", "changed")
	c.Set("c", "3")

	if v, _ := m.Get("a"); v != "1" {
		t.Errorf("clone mutation leaked into original: %q", v)
	}
	if m.Len() != 2 {
		t.Errorf("clone insertion leaked into original: %d entries", m.Len())
	}
}
