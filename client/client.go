package client

import (
	"context"
	"fmt"
	"log"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/hooks"
	"github.com/skymod/labeler/posts"
	"github.com/skymod/labeler/utils"
)

// Service is the post labeling service.
type Service struct {
	labeler *labeler.Labeler
	posts   posts.Provider
	opts    Options
}

// New creates a new labeling service.
func New(opts Options) (*Service, error) {
	if opts.Labeler == nil {
		return nil, labeler.ErrMissingConfig
	}
	if opts.Hooks == nil {
		opts.Hooks = hooks.NopHooks{}
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = labeler.DefaultBatchConcurrency
	}
	if opts.ReviewExcerptLen <= 0 {
		opts.ReviewExcerptLen = labeler.DefaultReviewExcerptLen
	}

	return &Service{
		labeler: opts.Labeler,
		posts:   opts.Posts,
		opts:    opts,
	}, nil
}

// LabelPost fetches the post behind a bsky.app URL or at:// URI and
// classifies its text.
func (s *Service) LabelPost(ctx context.Context, ref string) (*labeler.Result, error) {
	if s.posts == nil {
		return nil, fmt.Errorf("%w: no post provider", labeler.ErrMissingConfig)
	}

	post, err := s.posts.GetPost(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", ref, err)
	}

	return s.labelContent(ctx, post.URI, post.Text)
}

// LabelText classifies already-fetched post text. postURI may be empty
// when the text has no known origin.
func (s *Service) LabelText(ctx context.Context, postURI, text string) (*labeler.Result, error) {
	return s.labelContent(ctx, postURI, text)
}

func (s *Service) labelContent(ctx context.Context, postURI, text string) (*labeler.Result, error) {
	hash := utils.HashText(text)

	if s.opts.EnableDedup && s.opts.Store != nil {
		if existing, err := s.opts.Store.FindRecordByHash(ctx, hash); err == nil {
			result := recordToResult(existing)
			s.fireLabeled(ctx, postURI, hash, existing.ID, result, true)
			return &result, nil
		}
	}

	result := s.labeler.Classify(ctx, text)

	recordID := ""
	if s.opts.Store != nil {
		id, err := s.opts.Store.SaveRecord(ctx, labeler.LabelRecord{
			PostURI:     postURI,
			ContentHash: hash,
			Labels:      result.Labels,
			Severity:    int(result.Severity),
			Score:       result.Score,
			MatchCount:  len(result.Matches),
			NeedsReview: result.NeedsReview,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist record: %w", err)
		}
		recordID = id

		if result.NeedsReview {
			s.enqueueReview(ctx, postURI, recordID, text)
		}
	}

	s.fireLabeled(ctx, postURI, hash, recordID, result, false)

	if result.Severity >= labeler.SeverityHigh {
		event := hooks.SeverityEscalatedEvent{
			PostURI:  postURI,
			RecordID: recordID,
			Severity: result.Severity,
			Score:    result.Score,
		}
		if err := s.opts.Hooks.OnSeverityEscalated(ctx, event); err != nil {
			log.Printf("[client] severity hook failed for %s: %v", postURI, err)
		}
	}

	return &result, nil
}

func (s *Service) enqueueReview(ctx context.Context, postURI, recordID, text string) {
	excerpt := text
	if len(excerpt) > s.opts.ReviewExcerptLen {
		excerpt = excerpt[:s.opts.ReviewExcerptLen]
	}

	taskID, err := s.opts.Store.EnqueueReview(ctx, labeler.ReviewTask{
		RecordID: recordID,
		PostURI:  postURI,
		Excerpt:  excerpt,
	})
	if err != nil {
		log.Printf("[client] failed to enqueue review for %s: %v", postURI, err)
		return
	}

	event := hooks.ReviewFlaggedEvent{
		PostURI:  postURI,
		RecordID: recordID,
		TaskID:   taskID,
		Excerpt:  excerpt,
	}
	if err := s.opts.Hooks.OnReviewFlagged(ctx, event); err != nil {
		log.Printf("[client] review hook failed for %s: %v", postURI, err)
	}
}

func (s *Service) fireLabeled(ctx context.Context, postURI, hash, recordID string, result labeler.Result, cached bool) {
	event := hooks.PostLabeledEvent{
		PostURI:     postURI,
		ContentHash: hash,
		RecordID:    recordID,
		Result:      result,
		Cached:      cached,
	}
	if err := s.opts.Hooks.OnPostLabeled(ctx, event); err != nil {
		log.Printf("[client] labeled hook failed for %s: %v", postURI, err)
	}
}

// recordToResult rebuilds a Result from a persisted record. Matches are
// not stored, so only the label-level fields survive the round trip.
func recordToResult(rec *labeler.LabelRecord) labeler.Result {
	result := labeler.Result{
		Labels:      rec.Labels,
		Severity:    labeler.SeverityLevel(rec.Severity),
		Score:       rec.Score,
		NeedsReview: rec.NeedsReview,
	}
	severityLabel := labeler.SeverityLevel(rec.Severity).Label()
	for _, l := range rec.Labels {
		if l != severityLabel && l != labeler.ReviewMarkerLabel {
			result.Categories = append(result.Categories, l)
		}
	}
	return result
}
