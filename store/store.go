// Package store provides the data storage interface for label records
// and the human-review queue.
package store

import (
	"context"

	labeler "github.com/skymod/labeler"
)

// Store defines the persistence interface for the labeler.
type Store interface {
	// LabelRecord operations
	SaveRecord(ctx context.Context, rec labeler.LabelRecord) (recordID string, err error)
	GetRecord(ctx context.Context, recordID string) (*labeler.LabelRecord, error)
	FindRecordByHash(ctx context.Context, contentHash string) (*labeler.LabelRecord, error)
	ListRecordsByPost(ctx context.Context, postURI string, limit int) ([]labeler.LabelRecord, error)

	// Review queue operations
	EnqueueReview(ctx context.Context, task labeler.ReviewTask) (taskID string, err error)
	GetReviewTask(ctx context.Context, taskID string) (*labeler.ReviewTask, error)
	ListPendingReviews(ctx context.Context, limit int) ([]labeler.ReviewTask, error)
	ResolveReview(ctx context.Context, taskID, reviewerID, comment string, status labeler.ReviewStatus) error

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
