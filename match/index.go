// Package match compiles category lexicons into immutable matching indexes
// and scans post text against them. Literal phrases share one Aho-Corasick
// automaton so a scan costs a single pass over the text; regex entries are
// compiled eagerly and tested for first occurrence only.
package match

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/lexicon"
)

// Index is the compiled form of a category lexicon. Build it once and share
// it across concurrent Scan calls; it is never mutated after construction.
type Index struct {
	automaton *ahocorasick.Matcher
	phrases   []string          // automaton dictionary, same order as insertion
	category  map[string]string // literal phrase -> category
	regexes   []compiledRegex
	allowed   map[string]bool
}

type compiledRegex struct {
	re       *regexp.Regexp
	source   string
	category string
}

// NewIndex compiles lexicon entries into a matching index under the given
// configuration. Literal phrase conflicts follow cfg.ConflictPolicy; unknown
// categories fail the compile in strict mode and stay inert in lenient mode.
// A regex entry that fails to compile is skipped with a diagnostic, never
// fatal: one malformed row must not abort moderation.
func NewIndex(entries []lexicon.Entry, cfg labeler.Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ix := &Index{
		category: make(map[string]string),
		allowed:  cfg.Vocabulary.Set(),
	}

	for _, e := range entries {
		if !ix.allowed[e.Category] {
			if cfg.VocabularyMode == labeler.VocabStrict {
				return nil, fmt.Errorf("%w: %q (vocabulary %s)",
					labeler.ErrUnknownCategory, e.Category, cfg.Vocabulary.Version)
			}
			// Lenient: loaded but inert. Keep it out of the automaton so
			// it can never match.
			continue
		}

		if e.IsRegex {
			re, err := regexp.Compile("(?i)" + e.Pattern)
			if err != nil {
				log.Printf("[match] skipping invalid regex %q: %v", e.Pattern, err)
				continue
			}
			ix.regexes = append(ix.regexes, compiledRegex{
				re:       re,
				source:   e.Pattern,
				category: e.Category,
			})
			continue
		}

		phrase := strings.ToLower(e.Pattern)
		if prev, ok := ix.category[phrase]; ok {
			if prev == e.Category {
				continue
			}
			switch cfg.ConflictPolicy {
			case labeler.ConflictFirstWins:
				continue
			case labeler.ConflictLastWins:
				ix.category[phrase] = e.Category
				continue
			default:
				return nil, fmt.Errorf("%w: %q maps to both %q and %q",
					labeler.ErrDuplicatePhrase, phrase, prev, e.Category)
			}
		}
		ix.category[phrase] = e.Category
		ix.phrases = append(ix.phrases, phrase)
	}

	if len(ix.phrases) == 0 && len(ix.regexes) == 0 {
		return nil, labeler.ErrEmptyLexicon
	}

	if len(ix.phrases) > 0 {
		ix.automaton = ahocorasick.NewStringMatcher(ix.phrases)
	}

	return ix, nil
}

// Scan finds all lexicon hits in the text. The text is lower-cased to match
// the normalization applied at load time. The result is deduplicated by
// pattern id: a phrase or regex source contributes at most one match per
// call, with the literal association winning over a regex of the same source.
func (ix *Index) Scan(text string) labeler.MatchSet {
	normalized := strings.ToLower(text)

	var out labeler.MatchSet
	seen := make(map[string]bool)

	if ix.automaton != nil {
		for _, hit := range ix.automaton.MatchThreadSafe([]byte(normalized)) {
			phrase := ix.phrases[hit]
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			out = append(out, labeler.Match{
				Category:  ix.category[phrase],
				PatternID: phrase,
				Origin:    labeler.OriginLiteral,
			})
		}
	}

	for _, cr := range ix.regexes {
		if seen[cr.source] {
			continue
		}
		// First occurrence only; the scanner does not count repeats.
		if cr.re.MatchString(normalized) {
			seen[cr.source] = true
			out = append(out, labeler.Match{
				Category:  cr.category,
				PatternID: cr.source,
				Origin:    labeler.OriginRegex,
			})
		}
	}

	return out
}

// PhraseCount returns how many literal phrases the index holds.
func (ix *Index) PhraseCount() int {
	return len(ix.phrases)
}

// RegexCount returns how many compiled regex patterns the index holds.
func (ix *Index) RegexCount() int {
	return len(ix.regexes)
}
