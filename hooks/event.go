package hooks

import (
	labeler "github.com/skymod/labeler"
)

// PostLabeledEvent fires after a post has been classified and, when a
// store is configured, its record persisted.
type PostLabeledEvent struct {
	PostURI     string
	ContentHash string
	RecordID    string
	Result      labeler.Result

	// Cached is true when the labels came from a prior record instead
	// of a fresh classification.
	Cached bool
}

// ReviewFlaggedEvent fires when a post is queued for human review.
type ReviewFlaggedEvent struct {
	PostURI  string
	RecordID string
	TaskID   string
	Excerpt  string
}

// SeverityEscalatedEvent fires when a classification lands at or above
// the high severity level.
type SeverityEscalatedEvent struct {
	PostURI  string
	RecordID string
	Severity labeler.SeverityLevel
	Score    float64
}
