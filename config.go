package labeler

import (
	"fmt"
	"time"
)

// Vocabulary is the versioned set of accepted category labels. Lexicon rows
// referencing a category outside the active vocabulary either fail the
// compile (strict mode) or stay inert (lenient mode).
type Vocabulary struct {
	Version    string
	Categories []string
}

// Contains checks if a category belongs to the vocabulary.
func (v Vocabulary) Contains(category string) bool {
	for _, c := range v.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Set returns the vocabulary categories as a lookup set.
func (v Vocabulary) Set() map[string]bool {
	set := make(map[string]bool, len(v.Categories))
	for _, c := range v.Categories {
		set[c] = true
	}
	return set
}

// DefaultVocabulary returns the current accepted label vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Version: "2024-04",
		Categories: []string{
			CategorySexualViolence,
			CategoryEmotionalCoercion,
			CategoryReputationalCoercion,
			CategorySelfHarm,
			CategorySurvivorDiscussion,
			CategoryFictionalDepiction,
			CategoryTraumaticNews,
		},
	}
}

// Threshold maps a minimum weighted score (inclusive) to a severity level.
type Threshold struct {
	Score float64
	Level SeverityLevel
}

// ConflictPolicy decides what happens when the same literal phrase appears
// in multiple lexicon rows with different categories.
type ConflictPolicy string

const (
	// ConflictError rejects the lexicon at compile time.
	ConflictError ConflictPolicy = "error"

	// ConflictFirstWins keeps the first category seen for the phrase.
	ConflictFirstWins ConflictPolicy = "first_wins"

	// ConflictLastWins keeps the last category seen for the phrase.
	ConflictLastWins ConflictPolicy = "last_wins"
)

// VocabularyMode decides how lexicon categories outside the active
// vocabulary are handled at compile time.
type VocabularyMode string

const (
	// VocabStrict fails the compile on an unknown category, surfacing
	// vocabulary drift instead of masking it.
	VocabStrict VocabularyMode = "strict"

	// VocabLenient loads the entry but keeps it inert: it never matches.
	VocabLenient VocabularyMode = "lenient"
)

// Config holds all matching and scoring policy for a labeler instance.
// There are no package-level knobs; everything is passed in here.
type Config struct {
	// Vocabulary is the accepted category label set.
	Vocabulary Vocabulary

	// CriticalCategories get double weight in severity scoring.
	CriticalCategories []string

	// Thresholds map weighted scores to severity levels. Lower bounds are
	// inclusive; the highest matching threshold wins. Scores below every
	// threshold map to SeverityLow.
	Thresholds []Threshold

	// CriticalWeight and BaseWeight are the per-match score contributions.
	CriticalWeight float64
	BaseWeight     float64

	// External signal adjustment policy. Toxicity at or above ToxicityHigh
	// adds SignalDelta to the score; at or below ToxicityLow subtracts it.
	// Sarcasm at or above SarcasmHigh subtracts SignalDelta and marks the
	// result less certain.
	ToxicityHigh float64
	ToxicityLow  float64
	SarcasmHigh  float64
	SignalDelta  float64

	// ReviewPenalty is subtracted from the score when the ambiguity
	// lexicon flags the post, before threshold mapping.
	ReviewPenalty float64

	// SignalTimeout bounds the external signal call. On timeout the score
	// is used unadjusted.
	SignalTimeout time.Duration

	// ConflictPolicy resolves duplicate literal phrases across rows.
	ConflictPolicy ConflictPolicy

	// VocabularyMode controls unknown-category handling at compile time.
	VocabularyMode VocabularyMode
}

// DefaultConfig returns the default labeler configuration.
func DefaultConfig() Config {
	return Config{
		Vocabulary: DefaultVocabulary(),
		CriticalCategories: []string{
			CategorySexualViolence,
			CategorySelfHarm,
		},
		Thresholds: []Threshold{
			{Score: 6, Level: SeverityHigh},
			{Score: 3, Level: SeverityMedium},
		},
		CriticalWeight: 2,
		BaseWeight:     1,
		ToxicityHigh:   0.8,
		ToxicityLow:    0.2,
		SarcasmHigh:    0.7,
		SignalDelta:    1,
		ReviewPenalty:  0.5,
		SignalTimeout:  DefaultSignalTimeoutSeconds * time.Second,
		ConflictPolicy: ConflictError,
		VocabularyMode: VocabStrict,
	}
}

// IsCritical checks if a category contributes double weight.
func (c Config) IsCritical(category string) bool {
	for _, cc := range c.CriticalCategories {
		if cc == category {
			return true
		}
	}
	return false
}

// Weight returns the score contribution for a single match in the category.
func (c Config) Weight(category string) float64 {
	if c.IsCritical(category) {
		return c.CriticalWeight
	}
	return c.BaseWeight
}

// LevelFor maps a weighted score to a severity level. Threshold lower
// bounds are inclusive: a score exactly at a boundary takes the higher level.
func (c Config) LevelFor(score float64) SeverityLevel {
	level := SeverityLow
	best := -1.0
	for _, t := range c.Thresholds {
		if score >= t.Score && t.Score > best {
			best = t.Score
			level = t.Level
		}
	}
	return level
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if len(c.Vocabulary.Categories) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrInvalidConfig)
	}
	if len(c.Thresholds) == 0 {
		return ErrNoThresholds
	}
	for _, t := range c.Thresholds {
		if t.Level < SeverityLow || t.Level > SeverityHigh {
			return fmt.Errorf("%w: threshold level %d out of range", ErrInvalidConfig, t.Level)
		}
	}
	if c.BaseWeight <= 0 || c.CriticalWeight < c.BaseWeight {
		return fmt.Errorf("%w: weights must satisfy 0 < base <= critical", ErrInvalidConfig)
	}
	for _, cc := range c.CriticalCategories {
		if !c.Vocabulary.Contains(cc) {
			return fmt.Errorf("%w: critical category %q not in vocabulary %s", ErrInvalidConfig, cc, c.Vocabulary.Version)
		}
	}
	switch c.ConflictPolicy {
	case ConflictError, ConflictFirstWins, ConflictLastWins:
	default:
		return fmt.Errorf("%w: unknown conflict policy %q", ErrInvalidConfig, c.ConflictPolicy)
	}
	switch c.VocabularyMode {
	case VocabStrict, VocabLenient:
	default:
		return fmt.Errorf("%w: unknown vocabulary mode %q", ErrInvalidConfig, c.VocabularyMode)
	}
	return nil
}
