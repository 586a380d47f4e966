package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	labeler "github.com/skymod/labeler"
)

func fastResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxRetries:    2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		EnableRetry:   true,
		EnableLogging: false,
	}
}

func TestResilient_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	source := SourceFunc{
		SourceName: "flaky",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			calls++
			if calls < 3 {
				return nil, labeler.NewSignalError("flaky", "overloaded", "try later").
					WithStatusCode(503)
			}
			return map[string]float64{labeler.SignalToxicity: 0.5}, nil
		},
	}

	r := NewResilient(source, fastResilientConfig())
	scores, err := r.Scores(context.Background(), "text")
	if err != nil {
		t.Fatalf("Scores() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("source called %d times, want 3", calls)
	}
	if scores[labeler.SignalToxicity] != 0.5 {
		t.Errorf("scores = %v", scores)
	}
}

func TestResilient_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	source := SourceFunc{
		SourceName: "denied",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			calls++
			return nil, labeler.NewSignalError("denied", "forbidden", "bad credentials").
				WithStatusCode(403)
		},
	}

	r := NewResilient(source, fastResilientConfig())
	_, err := r.Scores(context.Background(), "text")
	if err == nil {
		t.Fatal("Scores() succeeded, want error")
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
}

func TestResilient_ExhaustsRetries(t *testing.T) {
	calls := 0
	wantErr := labeler.NewSignalError("down", "unavailable", "still down").WithStatusCode(503)
	source := SourceFunc{
		SourceName: "down",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			calls++
			return nil, wantErr
		},
	}

	r := NewResilient(source, fastResilientConfig())
	_, err := r.Scores(context.Background(), "text")
	if !errors.Is(err, wantErr) {
		t.Errorf("Scores() error = %v, want wrapped original", err)
	}
	// Initial attempt plus MaxRetries.
	if calls != 3 {
		t.Errorf("source called %d times, want 3", calls)
	}
}

func TestResilient_RetryDisabled(t *testing.T) {
	calls := 0
	source := SourceFunc{
		SourceName: "once",
		Func: func(ctx context.Context, text string) (map[string]float64, error) {
			calls++
			return nil, labeler.NewSignalError("once", "unavailable", "down").WithStatusCode(503)
		},
	}

	cfg := fastResilientConfig()
	cfg.EnableRetry = false
	r := NewResilient(source, cfg)

	_, _ = r.Scores(context.Background(), "text")
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
}

func TestResilient_Name(t *testing.T) {
	r := NewResilient(Nop{}, fastResilientConfig())
	if r.Name() != "nop" {
		t.Errorf("Name() = %q, want wrapped source name", r.Name())
	}
}
