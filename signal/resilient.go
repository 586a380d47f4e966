package signal

import (
	"context"
	"time"

	"github.com/skymod/labeler/utils"
)

// ResilientConfig configures the resilient source wrapper.
type ResilientConfig struct {
	// Retry configuration
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Logger for signal calls
	Logger CallLogger

	// EnableRetry controls whether retry is enabled.
	EnableRetry bool

	// EnableLogging controls whether logging is enabled.
	EnableLogging bool
}

// DefaultResilientConfig returns sensible defaults.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxRetries:    2,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		EnableRetry:   true,
		EnableLogging: true,
	}
}

// Resilient wraps a signal source with retry and call logging. Failures
// still surface as errors; the severity engine decides to degrade, not
// this wrapper.
type Resilient struct {
	source  Source
	config  ResilientConfig
	retryer *utils.Retryer
	logger  CallLogger
}

// NewResilient creates a new resilient source wrapper.
func NewResilient(source Source, config ResilientConfig) *Resilient {
	r := &Resilient{
		source: source,
		config: config,
	}

	if config.EnableRetry {
		r.retryer = utils.NewRetryer(utils.RetryConfig{
			MaxRetries:   config.MaxRetries,
			InitialDelay: config.InitialDelay,
			MaxDelay:     config.MaxDelay,
			Multiplier:   2.0,
			Jitter:       0.1,
		})
	}

	if config.EnableLogging {
		if config.Logger != nil {
			r.logger = config.Logger
		} else {
			r.logger = NewStandardLogger(0)
		}
	} else {
		r.logger = NopCallLogger{}
	}

	return r
}

// Name returns the wrapped source name.
func (r *Resilient) Name() string {
	return r.source.Name()
}

// Scores queries the wrapped source, retrying retryable failures.
func (r *Resilient) Scores(ctx context.Context, text string) (map[string]float64, error) {
	timer := StartCall(r.logger, r.source.Name(), len(text))

	attempts := 0
	fn := func() (map[string]float64, error) {
		attempts++
		return r.source.Scores(ctx, text)
	}

	var scores map[string]float64
	var err error
	if r.retryer != nil {
		scores, err = utils.DoWithResult(ctx, r.retryer, fn)
	} else {
		scores, err = fn()
	}

	timer.WithRetryCount(attempts - 1)
	if err != nil {
		timer.Error(ctx, err)
		return nil, err
	}

	timer.Success(ctx)
	return scores, nil
}

// Ensure Resilient implements Source.
var _ Source = (*Resilient)(nil)
