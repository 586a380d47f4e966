// Package lexicon loads category lexicons from CSV sources. A lexicon row
// carries a category, a phrase or regex pattern, an is_regex indicator, and
// optional notes. Literal phrases are lower-cased at load time so they line
// up with the scanner's text normalization.
package lexicon

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	labeler "github.com/skymod/labeler"
)

func logf(format string, args ...any) {
	log.Printf("[lexicon] "+format, args...)
}

// Entry is a single lexicon row.
type Entry struct {
	Category string `json:"category"`
	Pattern  string `json:"pattern"`  // Literal phrase (lower-cased) or regex source
	IsRegex  bool   `json:"is_regex"` // Pattern is a regular expression
	Notes    string `json:"notes,omitempty"`
}

// Expected CSV columns, by header name.
const (
	colCategory = "category"
	colPattern  = "phrase_or_pattern"
	colIsRegex  = "is_regex"
	colNotes    = "notes"
)

// Load reads lexicon entries from a CSV stream. The first row must be a
// header containing at least category and phrase_or_pattern columns. Rows
// with an empty category or pattern are skipped with a diagnostic; a
// malformed CSV aborts the load.
func Load(r io.Reader) ([]Entry, error) {
	return load(r, "")
}

// LoadFile reads lexicon entries from a CSV file.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon: %w", err)
	}
	defer f.Close()
	return load(f, path)
}

func load(r io.Reader, file string) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, labeler.ErrEmptyLexicon
	}
	if err != nil {
		return nil, labeler.NewLexiconError(file, 1, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	catIdx, ok := cols[colCategory]
	if !ok {
		return nil, labeler.NewLexiconError(file, 1, fmt.Errorf("missing %q column", colCategory))
	}
	patIdx, ok := cols[colPattern]
	if !ok {
		return nil, labeler.NewLexiconError(file, 1, fmt.Errorf("missing %q column", colPattern))
	}
	regexIdx, hasRegexCol := cols[colIsRegex]
	notesIdx, hasNotesCol := cols[colNotes]

	var entries []Entry
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, labeler.NewLexiconError(file, row, err)
		}

		category := strings.ToLower(strings.TrimSpace(field(record, catIdx)))
		pattern := strings.TrimSpace(field(record, patIdx))
		if category == "" || pattern == "" {
			logf("skipping row %d: empty category or pattern", row)
			continue
		}

		isRegex := false
		if hasRegexCol {
			isRegex = truthy(field(record, regexIdx))
		}
		if !isRegex {
			pattern = strings.ToLower(pattern)
		}

		entry := Entry{
			Category: category,
			Pattern:  pattern,
			IsRegex:  isRegex,
		}
		if hasNotesCol {
			entry.Notes = strings.TrimSpace(field(record, notesIdx))
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, labeler.ErrEmptyLexicon
	}
	return entries, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// truthy interprets boolean-like CSV cells: "true", "1", "yes", "y", "t".
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t":
		return true
	default:
		return false
	}
}
