// ABOUTME: Local file import and export for the interchange format
// ABOUTME: Import validates shape and strips derived snapshots wholesale

package docformat

import (
	"fmt"
	"os"
)

// WriteFile writes an Export to a local JSON file.
func WriteFile(path string, ex *Export) error {
	data, err := Encode(ex)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// ReadFile imports a local JSON file, validating its shape and stripping
// derived snapshots so the returned tree is authoritative state only.
func ReadFile(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	ex, err := Decode(data)
	if err != nil {
		return nil, err
	}
	ex.Sections = StripSnapshots(ex.Sections)
	return ex, nil
}
