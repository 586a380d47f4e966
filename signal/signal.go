// Package signal defines the external signal source abstraction: third-party
// text classifiers that return probability estimates (toxicity, sarcasm) used
// to nudge the severity score, never to override it. Sources are optional;
// the labeler must produce a result whether or not a source is configured or
// reachable.
package signal

import "context"

// Source provides probability estimates in [0,1] for named signals
// (labeler.SignalToxicity, labeler.SignalSarcasm). A source may return any
// subset of signals; missing names are treated as "no opinion".
type Source interface {
	// Name returns the source name (e.g. "perspective", "tencent").
	Name() string

	// Scores returns the probability vector for the given normalized text.
	Scores(ctx context.Context, text string) (map[string]float64, error)
}

// Nop is a signal source that never has an opinion. Use it for offline or
// deterministic runs.
type Nop struct{}

// Name returns the source name.
func (Nop) Name() string { return "nop" }

// Scores returns an empty probability vector.
func (Nop) Scores(ctx context.Context, text string) (map[string]float64, error) {
	return map[string]float64{}, nil
}

// Ensure Nop implements Source.
var _ Source = Nop{}

// SourceFunc adapts a function to the Source interface.
type SourceFunc struct {
	SourceName string
	Func       func(ctx context.Context, text string) (map[string]float64, error)
}

// Name returns the source name.
func (f SourceFunc) Name() string {
	if f.SourceName == "" {
		return "func"
	}
	return f.SourceName
}

// Scores calls the wrapped function.
func (f SourceFunc) Scores(ctx context.Context, text string) (map[string]float64, error) {
	if f.Func == nil {
		return map[string]float64{}, nil
	}
	return f.Func(ctx, text)
}
