package labeler

import "sort"

// Match is a single lexicon hit found in a post.
type Match struct {
	Category  string      `json:"category"`   // Category the pattern maps to
	PatternID string      `json:"pattern_id"` // Literal phrase text or regex source
	Origin    MatchOrigin `json:"origin"`     // literal or regex
}

// MatchSet is a collection of matches, deduplicated by pattern id. The same
// phrase or regex source contributes at most one match per scan, no matter
// how many times it occurs in the text.
type MatchSet []Match

// HasPattern checks if the set already contains the given pattern id.
func (ms MatchSet) HasPattern(patternID string) bool {
	for _, m := range ms {
		if m.PatternID == patternID {
			return true
		}
	}
	return false
}

// Categories returns the unique categories present in the set, sorted.
func (ms MatchSet) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, m := range ms {
		if !seen[m.Category] {
			seen[m.Category] = true
			cats = append(cats, m.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// CountByOrigin returns how many matches came from the given origin.
func (ms MatchSet) CountByOrigin(origin MatchOrigin) int {
	n := 0
	for _, m := range ms {
		if m.Origin == origin {
			n++
		}
	}
	return n
}

// Result is the outcome of classifying a single post.
type Result struct {
	Labels      []string      `json:"labels"`       // Full label set: categories + severity + optional review marker, sorted
	Categories  []string      `json:"categories"`   // Matched category labels only
	Severity    SeverityLevel `json:"severity"`     // Discrete severity level (always set)
	Score       float64       `json:"score"`        // Final weighted score after any adjustment
	NeedsReview bool          `json:"needs_review"` // Ambiguity lexicon matched
	LessCertain bool          `json:"less_certain"` // Sarcasm-style signal reduced confidence
	Matches     MatchSet      `json:"matches"`      // Underlying pattern hits
}

// HasLabel checks if the result carries the given label token.
func (r Result) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// LabelRecord is a persisted classification outcome for a post.
type LabelRecord struct {
	ID          string   `json:"id" db:"id"`
	PostURI     string   `json:"post_uri" db:"post_uri"`
	ContentHash string   `json:"content_hash" db:"content_hash"`
	Labels      []string `json:"labels"`
	Severity    int      `json:"severity" db:"severity"`
	Score       float64  `json:"score" db:"score"`
	MatchCount  int      `json:"match_count" db:"match_count"`
	NeedsReview bool     `json:"needs_review" db:"needs_review"`
	CreatedAt   int64    `json:"created_at" db:"created_at"`
}

// ReviewTask is a queued human-review task for an ambiguous post.
type ReviewTask struct {
	ID         string       `json:"id" db:"id"`
	RecordID   string       `json:"record_id" db:"record_id"`
	PostURI    string       `json:"post_uri" db:"post_uri"`
	Excerpt    string       `json:"excerpt" db:"excerpt"`
	Status     ReviewStatus `json:"status" db:"status"`
	ReviewerID string       `json:"reviewer_id" db:"reviewer_id"`
	Comment    string       `json:"comment" db:"comment"`
	CreatedAt  int64        `json:"created_at" db:"created_at"`
	ResolvedAt int64        `json:"resolved_at" db:"resolved_at"`
}
