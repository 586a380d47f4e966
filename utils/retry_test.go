package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	labeler "github.com/skymod/labeler"
)

func fastRetryer(maxRetries int) *Retryer {
	return NewRetryer(RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	})
}

func TestRetryer_Do(t *testing.T) {
	calls := 0
	err := fastRetryer(3).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return labeler.ErrRateLimited
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryer_DoPermanentError(t *testing.T) {
	permanent := errors.New("bad input")
	calls := 0
	err := fastRetryer(3).Do(context.Background(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("Do() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (error is not retryable)", calls)
	}
}

func TestRetryer_DoExhausted(t *testing.T) {
	calls := 0
	err := fastRetryer(2).Do(context.Background(), func() error {
		calls++
		return labeler.ErrTimeout
	})
	if !errors.Is(err, labeler.ErrTimeout) {
		t.Errorf("Do() error = %v, want ErrTimeout", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want initial attempt plus 2 retries", calls)
	}
}

func TestRetryer_DoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastRetryer(3).Do(ctx, func() error {
		return labeler.ErrTimeout
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestRetryer_CustomRetryIf(t *testing.T) {
	special := errors.New("special")
	r := NewRetryer(RetryConfig{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		RetryIf:      func(err error) bool { return errors.Is(err, special) },
	})

	calls := 0
	_ = r.Do(context.Background(), func() error {
		calls++
		return special
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3 with custom predicate", calls)
	}
}

func TestRetryer_OnRetry(t *testing.T) {
	var attempts []int
	r := NewRetryer(RetryConfig{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		},
	})

	_ = r.Do(context.Background(), func() error {
		return labeler.ErrRateLimited
	})
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", attempts)
	}
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastRetryer(2), func() (string, error) {
		calls++
		if calls < 2 {
			return "", labeler.ErrRateLimited
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("DoWithResult() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("DoWithResult() = %q, want ok", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		if seen[id] {
			t.Fatalf("duplicate id %s at iteration %d", id, i)
		}
		seen[id] = true
	}

	if got := g.GenerateWithPrefix("rec"); len(got) < 5 || got[:4] != "rec_" {
		t.Errorf("GenerateWithPrefix() = %q, want rec_ prefix", got)
	}
}
