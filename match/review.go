package match

import (
	"log"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/skymod/labeler/lexicon"
)

// ReviewIndex is the compiled form of the ambiguity lexicon: hedging
// language, rhetorical questions, sarcasm markers. Any hit means the post
// warrants human judgment. Categories are not checked here; the review
// lexicon is its own namespace.
type ReviewIndex struct {
	automaton *ahocorasick.Matcher
	phrases   []string
	regexes   []*regexp.Regexp
}

// NewReviewIndex compiles the ambiguity lexicon. Invalid regex rows are
// skipped with a diagnostic. An empty entry list yields an index that never
// flags, which is a valid configuration.
func NewReviewIndex(entries []lexicon.Entry) *ReviewIndex {
	ri := &ReviewIndex{}

	for _, e := range entries {
		if e.IsRegex {
			re, err := regexp.Compile("(?i)" + e.Pattern)
			if err != nil {
				log.Printf("[match] skipping invalid review regex %q: %v", e.Pattern, err)
				continue
			}
			ri.regexes = append(ri.regexes, re)
			continue
		}
		ri.phrases = append(ri.phrases, strings.ToLower(e.Pattern))
	}

	if len(ri.phrases) > 0 {
		ri.automaton = ahocorasick.NewStringMatcher(ri.phrases)
	}

	return ri
}

// NeedsReview reports whether the text contains any ambiguity marker.
// Literals are checked first in a single automaton pass; regexes run only
// when no literal matched, short-circuiting on the first hit.
func (ri *ReviewIndex) NeedsReview(text string) bool {
	if ri == nil {
		return false
	}

	normalized := strings.ToLower(text)

	if ri.automaton != nil {
		if hits := ri.automaton.MatchThreadSafe([]byte(normalized)); len(hits) > 0 {
			return true
		}
	}

	for _, re := range ri.regexes {
		if re.MatchString(normalized) {
			return true
		}
	}

	return false
}

// MarkerCount returns how many compiled markers the index holds.
func (ri *ReviewIndex) MarkerCount() int {
	if ri == nil {
		return 0
	}
	return len(ri.phrases) + len(ri.regexes)
}
