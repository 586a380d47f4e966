package severity

import (
	"context"
	"errors"
	"testing"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/signal"
)

func matchSet(categories ...string) labeler.MatchSet {
	var ms labeler.MatchSet
	for i, c := range categories {
		ms = append(ms, labeler.Match{
			Category:  c,
			PatternID: string(rune('a' + i)),
			Origin:    labeler.OriginLiteral,
		})
	}
	return ms
}

func fixedSignal(scores map[string]float64, err error) signal.Source {
	return signal.SourceFunc{
		SourceName: "fixed",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			return scores, err
		},
	}
}

func TestEngine_BaseScore(t *testing.T) {
	cfg := labeler.DefaultConfig()
	e := NewEngine(cfg, nil)

	tests := []struct {
		name    string
		matches labeler.MatchSet
		want    float64
	}{
		{"empty", nil, 0},
		{"one plain match", matchSet("traumatic news"), 1},
		{"one critical match", matchSet("self harm"), 2},
		{"mixed weights", matchSet("self harm", "sexual violence", "traumatic news"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.BaseScore(tt.matches); got != tt.want {
				t.Errorf("BaseScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_AssessThresholds(t *testing.T) {
	cfg := labeler.DefaultConfig()
	e := NewEngine(cfg, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		matches labeler.MatchSet
		want    labeler.SeverityLevel
	}{
		{"no matches stays low", nil, labeler.SeverityLow},
		{"below medium boundary", matchSet("traumatic news", "survivor discussion"), labeler.SeverityLow},
		{"exactly at medium boundary", matchSet("traumatic news", "survivor discussion", "fictional depiction"), labeler.SeverityMedium},
		{"exactly at high boundary", matchSet("self harm", "sexual violence", "traumatic news", "survivor discussion"), labeler.SeverityHigh},
		{"two critical matches reach medium", matchSet("self harm", "sexual violence"), labeler.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Assess(ctx, tt.matches, "text", false)
			if got.Level != tt.want {
				t.Errorf("Assess() level = %v (score %v), want %v", got.Level, got.Score, tt.want)
			}
		})
	}
}

func TestEngine_AssessSignalAdjustment(t *testing.T) {
	ctx := context.Background()
	// Three plain matches: base score 3, medium.
	matches := matchSet("traumatic news", "survivor discussion", "fictional depiction")

	tests := []struct {
		name        string
		scores      map[string]float64
		wantScore   float64
		wantLevel   labeler.SeverityLevel
		wantAdjust  bool
		lessCertain bool
	}{
		{
			name:      "neutral signal leaves score alone",
			scores:    map[string]float64{labeler.SignalToxicity: 0.5},
			wantScore: 3, wantLevel: labeler.SeverityMedium,
		},
		{
			name:      "high toxicity raises score",
			scores:    map[string]float64{labeler.SignalToxicity: 0.9},
			wantScore: 4, wantLevel: labeler.SeverityMedium, wantAdjust: true,
		},
		{
			name:      "boundary toxicity counts as high",
			scores:    map[string]float64{labeler.SignalToxicity: 0.8},
			wantScore: 4, wantLevel: labeler.SeverityMedium, wantAdjust: true,
		},
		{
			name:      "low toxicity lowers score below medium",
			scores:    map[string]float64{labeler.SignalToxicity: 0.1},
			wantScore: 2, wantLevel: labeler.SeverityLow, wantAdjust: true,
		},
		{
			name:        "sarcasm lowers score and marks less certain",
			scores:      map[string]float64{labeler.SignalSarcasm: 0.9},
			wantScore:   2, wantLevel: labeler.SeverityLow,
			wantAdjust:  true,
			lessCertain: true,
		},
		{
			name: "toxicity and sarcasm cancel",
			scores: map[string]float64{
				labeler.SignalToxicity: 0.95,
				labeler.SignalSarcasm:  0.95,
			},
			wantScore:   3, wantLevel: labeler.SeverityMedium,
			wantAdjust:  true,
			lessCertain: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(labeler.DefaultConfig(), fixedSignal(tt.scores, nil))
			got := e.Assess(ctx, matches, "text", false)
			if got.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", got.Level, tt.wantLevel)
			}
			if got.Adjusted != tt.wantAdjust {
				t.Errorf("adjusted = %v, want %v", got.Adjusted, tt.wantAdjust)
			}
			if got.LessCertain != tt.lessCertain {
				t.Errorf("lessCertain = %v, want %v", got.LessCertain, tt.lessCertain)
			}
		})
	}
}

func TestEngine_AssessSignalFailureDegrades(t *testing.T) {
	e := NewEngine(labeler.DefaultConfig(), fixedSignal(nil, errors.New("upstream down")))
	matches := matchSet("traumatic news", "survivor discussion", "fictional depiction")

	got := e.Assess(context.Background(), matches, "text", false)
	if got.Score != 3 {
		t.Errorf("score = %v, want unadjusted 3", got.Score)
	}
	if got.Adjusted {
		t.Error("adjusted = true after signal failure")
	}
	if got.Level != labeler.SeverityMedium {
		t.Errorf("level = %v, want medium", got.Level)
	}
}

func TestEngine_AssessReviewPenalty(t *testing.T) {
	e := NewEngine(labeler.DefaultConfig(), nil)
	ctx := context.Background()

	// Base 3 is exactly at the medium boundary; the penalty drops it below.
	matches := matchSet("traumatic news", "survivor discussion", "fictional depiction")

	withReview := e.Assess(ctx, matches, "text", true)
	if withReview.Score != 2.5 {
		t.Errorf("score = %v, want 2.5", withReview.Score)
	}
	if withReview.Level != labeler.SeverityLow {
		t.Errorf("level = %v, want low after penalty", withReview.Level)
	}

	without := e.Assess(ctx, matches, "text", false)
	if without.Level != labeler.SeverityMedium {
		t.Errorf("level = %v, want medium without penalty", without.Level)
	}
}

func TestEngine_AssessMonotonic(t *testing.T) {
	e := NewEngine(labeler.DefaultConfig(), nil)
	ctx := context.Background()

	categories := []string{
		"traumatic news", "survivor discussion", "fictional depiction",
		"emotional coercion", "reputational coercion", "self harm", "sexual violence",
	}

	prev := 0.0
	for i := 1; i <= len(categories); i++ {
		got := e.Assess(ctx, matchSet(categories[:i]...), "text", false)
		if got.Score < prev {
			t.Fatalf("score decreased from %v to %v with %d matches", prev, got.Score, i)
		}
		prev = got.Score
	}
}
