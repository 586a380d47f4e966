// Package labeler classifies short text posts against a curated set of
// sensitive-content categories, assigns a discrete severity level, and
// optionally flags posts for human review. It is the decision core of a
// content-moderation labeler: lexicon matching, severity scoring, and
// review-flag detection, with pluggable external toxicity signals.
package labeler

import "fmt"

// SeverityLevel is the three-tier discrete severity output.
type SeverityLevel int

const (
	SeverityLow SeverityLevel = iota + 1
	SeverityMedium
	SeverityHigh
)

// String returns the string representation of SeverityLevel.
func (l SeverityLevel) String() string {
	switch l {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Label returns the synthetic label token for the level, e.g. "severity-level-2".
func (l SeverityLevel) Label() string {
	return fmt.Sprintf("severity-level-%d", int(l))
}

// Category labels accepted by the default vocabulary.
const (
	CategorySexualViolence       = "sexual violence"
	CategoryEmotionalCoercion    = "emotional coercion"
	CategoryReputationalCoercion = "reputational coercion"
	CategorySelfHarm             = "self harm"
	CategorySurvivorDiscussion   = "survivor discussion"
	CategoryFictionalDepiction   = "fictional depiction"
	CategoryTraumaticNews        = "traumatic news"
)

// ReviewMarkerLabel is added to the output when the ambiguity lexicon matches.
const ReviewMarkerLabel = "meta:needs-human-review"

// MatchOrigin records which matcher produced a match.
type MatchOrigin string

const (
	OriginLiteral MatchOrigin = "literal"
	OriginRegex   MatchOrigin = "regex"
)

// Signal names returned by external signal sources.
const (
	SignalToxicity = "TOXICITY"
	SignalSarcasm  = "SARCASM"
)

// ReviewStatus represents the state of a queued human-review task.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewResolved  ReviewStatus = "resolved"
	ReviewDismissed ReviewStatus = "dismissed"
)

// Default configuration values.
const (
	DefaultSignalTimeoutSeconds = 5
	DefaultBatchConcurrency     = 4
	DefaultReviewExcerptLen     = 120
)
