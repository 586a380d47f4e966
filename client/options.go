// Package client provides the post labeling service: fetch, classify,
// persist, and notify.
package client

import (
	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/hooks"
	"github.com/skymod/labeler/posts"
	"github.com/skymod/labeler/store"
)

// Options configures the labeling service.
type Options struct {
	// Labeler is the classification facade (required).
	Labeler *labeler.Labeler

	// Posts fetches post text for URL-based labeling. Optional; without
	// it only LabelText works.
	Posts posts.Provider

	// Store persists records and review tasks. Optional; without it the
	// service classifies but does not persist.
	Store store.Store

	// Hooks receives notifications as posts move through the pipeline.
	Hooks hooks.Hooks

	// EnableDedup skips re-classification when the store already holds
	// a record for the same content hash.
	EnableDedup bool

	// BatchConcurrency bounds the worker pool for LabelBatch.
	BatchConcurrency int

	// ReviewExcerptLen caps the excerpt stored with review tasks.
	ReviewExcerptLen int
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Hooks:            hooks.NopHooks{},
		EnableDedup:      true,
		BatchConcurrency: labeler.DefaultBatchConcurrency,
		ReviewExcerptLen: labeler.DefaultReviewExcerptLen,
	}
}

// LabelInput identifies one post for LabelBatch.
type LabelInput struct {
	// Ref is a bsky.app URL or at:// URI.
	Ref string
}

// LabelOutput pairs a batch input with its outcome.
type LabelOutput struct {
	Ref    string
	Result *labeler.Result
	Err    error
}
