// ABOUTME: Document metadata model and document-level mutations
// ABOUTME: Mirrors the section-level category and custom-field semantics

package document

import (
	"time"

	"github.com/nainya/doctree/pkg/fields"
)

// DateFormat is the calendar-date layout used for dateCreated, dateModified,
// and date-valued custom fields.
const DateFormat = "2006-01-02"

// Document holds a document's descriptive metadata. The content string and
// section tree live alongside it in an editing session; Document itself
// never stores document text.
type Document struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Categories   []string   `json:"categories"`
	SourceURL    string     `json:"sourceUrl"`
	DateCreated  string     `json:"dateCreated"`
	DateModified string     `json:"dateModified"`
	Author       string     `json:"author"`
	Version      string     `json:"version"`
	Tags         []string   `json:"tags"`
	CustomFields fields.Map `json:"customFields"`
}

// Touch records a metadata mutation by setting dateModified to now's date.
func (d *Document) Touch(now time.Time) {
	d.DateModified = now.Format(DateFormat)
}

// AddCategory adds a category with set semantics; adding a category that is
// already present is a no-op.
func (d *Document) AddCategory(category string) {
	for _, c := range d.Categories {
		if c == category {
			return
		}
	}
	d.Categories = append(d.Categories, category)
}

// RemoveCategory removes a category; removing an absent category is a no-op.
func (d *Document) RemoveCategory(category string) {
	for i, c := range d.Categories {
		if c == category {
			d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
			return
		}
	}
}

// SetCustomField inserts a custom field, silently overwriting an existing
// key.
func (d *Document) SetCustomField(key, value string) {
	d.CustomFields.Set(key, value)
}

// UpdateCustomField renames oldKey to newKey (when they differ) and sets the
// value. A collision with a different existing key silently overwrites it.
func (d *Document) UpdateCustomField(oldKey, newKey, value string) {
	d.CustomFields.Rename(oldKey, newKey, value)
}

// DeleteCustomField removes a custom field if present.
func (d *Document) DeleteCustomField(key string) {
	d.CustomFields.Delete(key)
}

// Clone returns a deep copy of the document metadata.
func (d Document) Clone() Document {
	out := d
	if d.Categories != nil {
		out.Categories = append([]string(nil), d.Categories...)
	}
	if d.Tags != nil {
		out.Tags = append([]string(nil), d.Tags...)
	}
	out.CustomFields = d.CustomFields.Clone()
	return out
}
