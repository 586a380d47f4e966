package lexicon

import (
	"errors"
	"strings"
	"testing"

	labeler "github.com/skymod/labeler"
)

func TestLoad(t *testing.T) {
	csv := `category,phrase_or_pattern,is_regex,notes
Self Harm,HURT MYSELF,false,direct statement
emotional coercion,"if you loved me",0,
sexual violence,forc(ed|ing) (me|her|him),true,inflection
`

	entries, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Load() returned %d entries, want 3", len(entries))
	}

	first := entries[0]
	if first.Category != "self harm" {
		t.Errorf("category = %q, want lower-cased %q", first.Category, "self harm")
	}
	if first.Pattern != "hurt myself" {
		t.Errorf("pattern = %q, want lower-cased %q", first.Pattern, "hurt myself")
	}
	if first.IsRegex {
		t.Error("IsRegex = true for literal row")
	}
	if first.Notes != "direct statement" {
		t.Errorf("notes = %q", first.Notes)
	}

	regex := entries[2]
	if !regex.IsRegex {
		t.Error("IsRegex = false for regex row")
	}
	if regex.Pattern != "forc(ed|ing) (me|her|him)" {
		t.Errorf("regex pattern was altered: %q", regex.Pattern)
	}
}

func TestLoad_SkipsEmptyRows(t *testing.T) {
	csv := `category,phrase_or_pattern
self harm,hurt myself
,missing category
self harm,
traumatic news,breaking tragedy
`

	entries, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Load() returned %d entries, want 2", len(entries))
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"no category column", "phrase_or_pattern\nhurt myself\n"},
		{"no pattern column", "category\nself harm\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv))
			if !labeler.IsLexiconError(err) {
				t.Errorf("Load() error = %v, want LexiconError", err)
			}
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty stream", ""},
		{"header only", "category,phrase_or_pattern\n"},
		{"only skipped rows", "category,phrase_or_pattern\n,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv))
			if !errors.Is(err, labeler.ErrEmptyLexicon) {
				t.Errorf("Load() error = %v, want ErrEmptyLexicon", err)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"y", true},
		{"t", true},
		{" true ", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"regex", false},
	}

	for _, tt := range tests {
		if got := truthy(tt.in); got != tt.want {
			t.Errorf("truthy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
