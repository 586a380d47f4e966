package labeler

import (
	"context"
	"sort"
)

// Scanner finds lexicon hits in post text. *match.Index implements this.
type Scanner interface {
	Scan(text string) MatchSet
}

// ReviewDetector reports whether text contains ambiguity markers.
// *match.ReviewIndex implements this.
type ReviewDetector interface {
	NeedsReview(text string) bool
}

// ScoringEngine maps a match set to a severity assessment.
// *severity.Engine implements this.
type ScoringEngine interface {
	Assess(ctx context.Context, matches MatchSet, text string, needsReview bool) SeverityAssessment
}

// SeverityAssessment is the scoring outcome consumed by the facade.
// It mirrors severity.Assessment without importing that package, keeping
// the dependency arrow pointing from severity to labeler.
type SeverityAssessment struct {
	Score       float64
	Level       SeverityLevel
	Adjusted    bool
	LessCertain bool
}

// Labeler is the classification facade: it orchestrates the scanner, the
// review detector, and the scoring engine over already-fetched post text.
// All fields are set at construction and never mutated, so one Labeler may
// serve concurrent Classify calls.
type Labeler struct {
	scanner  Scanner
	review   ReviewDetector
	engine   ScoringEngine
	vocab    Vocabulary
	defaults Config
}

// New creates a labeler from compiled indexes and a scoring engine.
// review may be nil when no ambiguity lexicon is configured.
func New(cfg Config, scanner Scanner, review ReviewDetector, engine ScoringEngine) (*Labeler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scanner == nil || engine == nil {
		return nil, ErrMissingConfig
	}
	return &Labeler{
		scanner:  scanner,
		review:   review,
		engine:   engine,
		vocab:    cfg.Vocabulary,
		defaults: cfg,
	}, nil
}

// Classify labels a single post text. It is a pure function of the
// labeler's immutable indexes, the optional external signal, and the text:
// two calls on the same input yield the same label set.
func (l *Labeler) Classify(ctx context.Context, text string) Result {
	matches := l.scanner.Scan(text)

	needsReview := false
	if l.review != nil {
		needsReview = l.review.NeedsReview(text)
	}

	assessment := l.engine.Assess(ctx, matches, text, needsReview)

	categories := matches.Categories()
	labels := append([]string(nil), categories...)
	labels = append(labels, assessment.Level.Label())
	if needsReview {
		labels = append(labels, ReviewMarkerLabel)
	}
	sort.Strings(labels)

	return Result{
		Labels:      labels,
		Categories:  categories,
		Severity:    assessment.Level,
		Score:       assessment.Score,
		NeedsReview: needsReview,
		LessCertain: assessment.LessCertain,
		Matches:     matches,
	}
}

// Vocabulary returns the active label vocabulary.
func (l *Labeler) Vocabulary() Vocabulary {
	return l.vocab
}

// Config returns the policy the labeler was built with.
func (l *Labeler) Config() Config {
	return l.defaults
}
