package labeler_test

import (
	"context"
	"reflect"
	"testing"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/lexicon"
	"github.com/skymod/labeler/match"
	"github.com/skymod/labeler/severity"
	"github.com/skymod/labeler/signal"
)

func newTestLabeler(t *testing.T, source signal.Source) *labeler.Labeler {
	t.Helper()

	entries := []lexicon.Entry{
		{Category: "self harm", Pattern: "hurt myself"},
		{Category: "self harm", Pattern: "end it all"},
		{Category: "sexual violence", Pattern: `forc(ed|ing) (me|her|him)`, IsRegex: true},
		{Category: "emotional coercion", Pattern: "if you loved me"},
		{Category: "reputational coercion", Pattern: "everyone will know"},
		{Category: "traumatic news", Pattern: "breaking tragedy"},
		{Category: "survivor discussion", Pattern: "when it happened to me"},
	}
	reviewEntries := []lexicon.Entry{
		{Category: "meta", Pattern: "?"},
		{Category: "meta", Pattern: "just kidding"},
		{Category: "meta", Pattern: "lol"},
	}

	cfg := labeler.DefaultConfig()
	index, err := match.NewIndex(entries, cfg)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	review := match.NewReviewIndex(reviewEntries)
	engine := severity.NewEngine(cfg, source)

	lab, err := labeler.New(cfg, index, review, engine)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return lab
}

func TestLabeler_Classify(t *testing.T) {
	lab := newTestLabeler(t, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		text       string
		wantLabels []string
	}{
		{
			name:       "clean text gets only the severity label",
			text:       "a lovely day for birdwatching",
			wantLabels: []string{"severity-level-1"},
		},
		{
			name:       "empty text gets only the severity label",
			text:       "",
			wantLabels: []string{"severity-level-1"},
		},
		{
			name:       "single critical match stays low severity",
			text:       "i want to hurt myself",
			wantLabels: []string{"self harm", "severity-level-1"},
		},
		{
			name:       "two critical matches reach medium",
			text:       "i will hurt myself, he forced me into this",
			wantLabels: []string{"self harm", "severity-level-2", "sexual violence"},
		},
		{
			name: "ambiguity marker adds the review label",
			text: "gonna disappear forever lol",
			wantLabels: []string{
				"meta:needs-human-review", "severity-level-1",
			},
		},
		{
			name: "dense critical text escalates to high",
			text: "if you loved me you would hurt myself with me; he forced me, everyone will know, end it all",
			wantLabels: []string{
				"emotional coercion", "reputational coercion",
				"self harm", "severity-level-3", "sexual violence",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lab.Classify(ctx, tt.text)
			if !reflect.DeepEqual(got.Labels, tt.wantLabels) {
				t.Errorf("Classify(%q).Labels = %v, want %v", tt.text, got.Labels, tt.wantLabels)
			}
		})
	}
}

func TestLabeler_ClassifyDeterministic(t *testing.T) {
	lab := newTestLabeler(t, nil)
	ctx := context.Background()
	text := "if you loved me you would not hurt myself"

	first := lab.Classify(ctx, text)
	second := lab.Classify(ctx, text)

	if !reflect.DeepEqual(first.Labels, second.Labels) {
		t.Errorf("labels differ across calls: %v vs %v", first.Labels, second.Labels)
	}
	if first.Score != second.Score {
		t.Errorf("scores differ across calls: %v vs %v", first.Score, second.Score)
	}
}

func TestLabeler_ClassifySignalInteraction(t *testing.T) {
	ctx := context.Background()

	toxic := signal.SourceFunc{
		SourceName: "toxic",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			return map[string]float64{labeler.SignalToxicity: 0.9}, nil
		},
	}
	sarcastic := signal.SourceFunc{
		SourceName: "sarcastic",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			return map[string]float64{labeler.SignalSarcasm: 0.9}, nil
		},
	}

	// One critical match: base score 2, one below the medium boundary.
	text := "i want to hurt myself"

	t.Run("toxicity pushes over a boundary", func(t *testing.T) {
		lab := newTestLabeler(t, toxic)
		got := lab.Classify(ctx, text)
		if got.Severity != labeler.SeverityMedium {
			t.Errorf("severity = %v (score %v), want medium", got.Severity, got.Score)
		}
		if !got.HasLabel("severity-level-2") {
			t.Errorf("labels = %v, want severity-level-2", got.Labels)
		}
	})

	t.Run("sarcasm lowers and marks less certain", func(t *testing.T) {
		lab := newTestLabeler(t, sarcastic)
		got := lab.Classify(ctx, text)
		if got.Severity != labeler.SeverityLow {
			t.Errorf("severity = %v, want low", got.Severity)
		}
		if !got.LessCertain {
			t.Error("LessCertain = false, want true")
		}
	})
}

func TestLabeler_ClassifyResultFields(t *testing.T) {
	lab := newTestLabeler(t, nil)

	got := lab.Classify(context.Background(), "he forced me; is this fine?")

	if !got.NeedsReview {
		t.Error("NeedsReview = false, want true")
	}
	if !got.HasLabel(labeler.ReviewMarkerLabel) {
		t.Errorf("labels = %v, missing review marker", got.Labels)
	}
	if len(got.Matches) != 1 {
		t.Fatalf("matches = %+v, want 1", got.Matches)
	}
	if got.Matches[0].Origin != labeler.OriginRegex {
		t.Errorf("origin = %v, want regex", got.Matches[0].Origin)
	}
	if want := []string{"sexual violence"}; !reflect.DeepEqual(got.Categories, want) {
		t.Errorf("categories = %v, want %v", got.Categories, want)
	}
	// Review penalty: base 2 minus 0.5.
	if got.Score != 1.5 {
		t.Errorf("score = %v, want 1.5", got.Score)
	}
}

func TestNew_Validation(t *testing.T) {
	cfg := labeler.DefaultConfig()
	entries := []lexicon.Entry{{Category: "self harm", Pattern: "hurt myself"}}
	index, err := match.NewIndex(entries, cfg)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	engine := severity.NewEngine(cfg, nil)

	if _, err := labeler.New(cfg, nil, nil, engine); err == nil {
		t.Error("New() accepted nil scanner")
	}
	if _, err := labeler.New(cfg, index, nil, nil); err == nil {
		t.Error("New() accepted nil engine")
	}

	bad := cfg
	bad.Thresholds = nil
	if _, err := labeler.New(bad, index, nil, engine); err == nil {
		t.Error("New() accepted config without thresholds")
	}

	// nil review detector is a valid configuration
	if _, err := labeler.New(cfg, index, nil, engine); err != nil {
		t.Errorf("New() with nil review detector: %v", err)
	}
}
