package match

import (
	"testing"

	"github.com/skymod/labeler/lexicon"
)

func reviewEntries() []lexicon.Entry {
	return []lexicon.Entry{
		{Category: "meta", Pattern: "?"},
		{Category: "meta", Pattern: "just kidding"},
		{Category: "meta", Pattern: "lol"},
		{Category: "meta", Pattern: `\bjk\b`, IsRegex: true},
	}
}

func TestReviewIndex_NeedsReview(t *testing.T) {
	ri := NewReviewIndex(reviewEntries())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain statement", "i will hurt myself", false},
		{"question mark", "would you even care?", true},
		{"hedge phrase", "I'd end it all... just kidding", true},
		{"laugh token", "gonna disappear forever LOL", true},
		{"regex marker", "delete everything jk", true},
		{"regex respects word boundary", "hijkl", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ri.NeedsReview(tt.text); got != tt.want {
				t.Errorf("NeedsReview(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestReviewIndex_NilSafe(t *testing.T) {
	var ri *ReviewIndex
	if ri.NeedsReview("anything?") {
		t.Error("nil index flagged text")
	}
	if ri.MarkerCount() != 0 {
		t.Error("nil index reports markers")
	}
}

func TestReviewIndex_SkipsInvalidRegex(t *testing.T) {
	ri := NewReviewIndex([]lexicon.Entry{
		{Category: "meta", Pattern: `broken(`, IsRegex: true},
		{Category: "meta", Pattern: "lol"},
	})

	if ri.MarkerCount() != 1 {
		t.Errorf("MarkerCount() = %d, want 1", ri.MarkerCount())
	}
	if !ri.NeedsReview("lol ok") {
		t.Error("surviving marker did not match")
	}
}

func TestReviewIndex_Empty(t *testing.T) {
	ri := NewReviewIndex(nil)
	if ri.NeedsReview("is this fine? lol") {
		t.Error("empty index flagged text")
	}
}
