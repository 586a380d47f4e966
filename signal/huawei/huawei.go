// Package huawei provides a signal source backed by Huawei Cloud text
// moderation v3. Detail confidences are already 0-1; the highest one is
// reported as the toxicity probability.
package huawei

import (
	"context"
	"fmt"
	"time"

	"github.com/huaweicloud/huaweicloud-sdk-go-v3/core/auth/basic"
	moderation "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/moderation/v3"
	"github.com/huaweicloud/huaweicloud-sdk-go-v3/services/moderation/v3/model"
	region "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/moderation/v3/region"

	labeler "github.com/skymod/labeler"
)

const sourceName = "huawei"

// Config holds the configuration for the Huawei source.
type Config struct {
	AccessKeyID     string
	AccessKeySecret string
	ProjectID       string
	Region          string
	Timeout         time.Duration

	// EventType selects the text moderation event type.
	EventType string
}

// DefaultConfig returns the default Huawei configuration.
func DefaultConfig() Config {
	return Config{
		Region:    "cn-north-4",
		Timeout:   30 * time.Second,
		EventType: "comment",
	}
}

// Source implements signal.Source over Huawei moderation.
type Source struct {
	config Config
	client *moderation.ModerationClient
}

// New creates a new Huawei source.
func New(cfg Config) (*Source, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("%w: huawei credentials", labeler.ErrMissingConfig)
	}
	if cfg.EventType == "" {
		cfg.EventType = "comment"
	}

	s := &Source{config: cfg}
	if err := s.initClient(); err != nil {
		return nil, fmt.Errorf("failed to init huawei client: %w", err)
	}
	return s, nil
}

func (s *Source) initClient() error {
	auth := basic.NewCredentialsBuilder().
		WithAk(s.config.AccessKeyID).
		WithSk(s.config.AccessKeySecret).
		WithProjectId(s.config.ProjectID).
		Build()

	reg, err := region.SafeValueOf(s.config.Region)
	if err != nil {
		return fmt.Errorf("invalid region: %w", err)
	}

	s.client = moderation.NewModerationClient(
		moderation.ModerationClientBuilder().
			WithRegion(reg).
			WithCredential(auth).
			Build())
	return nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return sourceName
}

// Scores submits the text for moderation and maps the result to a
// toxicity probability.
func (s *Source) Scores(ctx context.Context, text string) (map[string]float64, error) {
	eventType := s.config.EventType
	req := &model.RunTextModerationRequest{
		Body: &model.TextDetectionReq{
			EventType: &eventType,
			Data: &model.TextDetectionDataReq{
				Text: text,
			},
		},
	}

	resp, err := s.client.RunTextModeration(req)
	if err != nil {
		return nil, labeler.NewSignalError(sourceName, "request_failed", err.Error()).
			WithCategory(labeler.ErrorCategoryNetwork).WithCause(err)
	}
	if resp.Result == nil {
		return nil, labeler.NewSignalError(sourceName, "empty_response", "moderation returned no result")
	}

	r := resp.Result
	toxicity := 0.0

	if r.Details != nil {
		for _, detail := range *r.Details {
			if detail.Confidence == nil {
				continue
			}
			if conf := float64(*detail.Confidence); conf > toxicity {
				toxicity = conf
			}
		}
	}

	if toxicity == 0 && r.Suggestion != nil {
		switch string(*r.Suggestion) {
		case "block":
			toxicity = 0.95
		case "review":
			toxicity = 0.6
		}
	}

	return map[string]float64{labeler.SignalToxicity: toxicity}, nil
}
