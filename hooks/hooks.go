// Package hooks provides the hook interface for handling labeling events.
package hooks

import (
	"context"
)

// Hooks defines the interface for handling labeling events.
// Implement this interface to receive notifications as posts move
// through the pipeline.
type Hooks interface {
	// OnPostLabeled is called after a post has been classified.
	OnPostLabeled(ctx context.Context, e PostLabeledEvent) error

	// OnReviewFlagged is called when a post is queued for human review.
	OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error

	// OnSeverityEscalated is called when a classification reaches the
	// high severity level.
	OnSeverityEscalated(ctx context.Context, e SeverityEscalatedEvent) error
}

// NopHooks is a no-op implementation of Hooks.
type NopHooks struct{}

// OnPostLabeled does nothing.
func (NopHooks) OnPostLabeled(ctx context.Context, e PostLabeledEvent) error {
	return nil
}

// OnReviewFlagged does nothing.
func (NopHooks) OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error {
	return nil
}

// OnSeverityEscalated does nothing.
func (NopHooks) OnSeverityEscalated(ctx context.Context, e SeverityEscalatedEvent) error {
	return nil
}

// Ensure NopHooks implements Hooks.
var _ Hooks = NopHooks{}

// ChainHooks chains multiple Hooks implementations.
type ChainHooks []Hooks

// OnPostLabeled calls all hooks in order.
func (ch ChainHooks) OnPostLabeled(ctx context.Context, e PostLabeledEvent) error {
	for _, h := range ch {
		if err := h.OnPostLabeled(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// OnReviewFlagged calls all hooks in order.
func (ch ChainHooks) OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error {
	for _, h := range ch {
		if err := h.OnReviewFlagged(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// OnSeverityEscalated calls all hooks in order.
func (ch ChainHooks) OnSeverityEscalated(ctx context.Context, e SeverityEscalatedEvent) error {
	for _, h := range ch {
		if err := h.OnSeverityEscalated(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// FuncHooks allows using functions as hooks.
type FuncHooks struct {
	OnPostLabeledFunc       func(ctx context.Context, e PostLabeledEvent) error
	OnReviewFlaggedFunc     func(ctx context.Context, e ReviewFlaggedEvent) error
	OnSeverityEscalatedFunc func(ctx context.Context, e SeverityEscalatedEvent) error
}

// OnPostLabeled calls the function if set.
func (fh FuncHooks) OnPostLabeled(ctx context.Context, e PostLabeledEvent) error {
	if fh.OnPostLabeledFunc != nil {
		return fh.OnPostLabeledFunc(ctx, e)
	}
	return nil
}

// OnReviewFlagged calls the function if set.
func (fh FuncHooks) OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error {
	if fh.OnReviewFlaggedFunc != nil {
		return fh.OnReviewFlaggedFunc(ctx, e)
	}
	return nil
}

// OnSeverityEscalated calls the function if set.
func (fh FuncHooks) OnSeverityEscalated(ctx context.Context, e SeverityEscalatedEvent) error {
	if fh.OnSeverityEscalatedFunc != nil {
		return fh.OnSeverityEscalatedFunc(ctx, e)
	}
	return nil
}
