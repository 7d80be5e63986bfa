// Package glossary parses Mapillary-style class definition documents.
package glossary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/menta2k/segprep/pkg/types"
)

// ErrMissingLabels reports a glossary document without a top-level
// "labels" list. No classes are built from such a document.
var ErrMissingLabels = errors.New(`glossary: document has no "labels" key`)

// Entry is one scored class parsed from the glossary. ID is the entry's
// index in the raw labels list, so ids keep gaps where labels are not
// evaluated. Externally assigned id schemes rely on this numbering.
type Entry struct {
	ID       int
	Name     string
	Category string
	Color    types.Color
}

type label struct {
	Name     string      `json:"name"`
	Color    types.Color `json:"color"`
	Evaluate bool        `json:"evaluate"`
}

// Load parses a glossary document from r. Labels with evaluate set to
// false are skipped but still consume an id. Compound names split on
// "--": the final segment is the class name, the leading segments
// joined with "-" form the category (empty for single-segment names).
func Load(r io.Reader) ([]Entry, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("glossary: decoding document: %w", err)
	}
	raw, ok := doc["labels"]
	if !ok {
		return nil, ErrMissingLabels
	}

	var lbls []label
	if err := json.Unmarshal(raw, &lbls); err != nil {
		return nil, fmt.Errorf("glossary: decoding labels: %w", err)
	}

	entries := make([]Entry, 0, len(lbls))
	for id, l := range lbls {
		if !l.Evaluate {
			continue
		}
		name, category := splitName(l.Name)
		entries = append(entries, Entry{ID: id, Name: name, Category: category, Color: l.Color})
	}
	return entries, nil
}

// LoadFile parses the glossary document at path.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("glossary: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func splitName(compound string) (name, category string) {
	parts := strings.Split(compound, "--")
	return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], "-")
}
