// Package tencent provides a signal source backed by Tencent Cloud
// text moderation (TMS). Detail scores are reported on a 0-100 scale;
// the highest one is mapped to a toxicity probability.
package tencent

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tms "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tms/v20201229"

	labeler "github.com/skymod/labeler"
)

const sourceName = "tencent"

// Config holds the configuration for the Tencent source.
type Config struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	Endpoint        string
	Timeout         time.Duration
}

// DefaultConfig returns the default Tencent configuration.
func DefaultConfig() Config {
	return Config{
		Region:   "ap-guangzhou",
		Endpoint: "tms.tencentcloudapi.com",
		Timeout:  30 * time.Second,
	}
}

// Source implements signal.Source over Tencent TMS.
type Source struct {
	config Config
	client *tms.Client
}

// New creates a new Tencent source.
func New(cfg Config) (*Source, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("%w: tencent credentials", labeler.ErrMissingConfig)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "tms.tencentcloudapi.com"
	}

	s := &Source{config: cfg}
	if err := s.initClient(); err != nil {
		return nil, fmt.Errorf("failed to init tencent client: %w", err)
	}
	return s, nil
}

func (s *Source) initClient() error {
	credential := common.NewCredential(s.config.AccessKeyID, s.config.AccessKeySecret)

	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = s.config.Endpoint

	client, err := tms.NewClient(credential, s.config.Region, cpf)
	if err != nil {
		return fmt.Errorf("failed to create tms client: %w", err)
	}
	s.client = client
	return nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return sourceName
}

// Scores submits the text for moderation and maps the result to a
// toxicity probability.
func (s *Source) Scores(ctx context.Context, text string) (map[string]float64, error) {
	req := tms.NewTextModerationRequest()
	content := base64.StdEncoding.EncodeToString([]byte(text))
	req.Content = &content

	resp, err := s.client.TextModeration(req)
	if err != nil {
		return nil, labeler.NewSignalError(sourceName, "request_failed", err.Error()).
			WithCategory(labeler.ErrorCategoryNetwork).WithCause(err)
	}
	if resp.Response == nil {
		return nil, labeler.NewSignalError(sourceName, "empty_response", "tms returned no body")
	}

	r := resp.Response
	toxicity := 0.0

	// The detail scores are finer-grained than the suggestion, so they win.
	if r.DetailResults != nil {
		for _, detail := range r.DetailResults {
			if detail.Label == nil || detail.Score == nil {
				continue
			}
			if *detail.Label == "Normal" {
				continue
			}
			if score := float64(*detail.Score) / 100.0; score > toxicity {
				toxicity = score
			}
		}
	}

	if toxicity == 0 && r.Suggestion != nil {
		switch *r.Suggestion {
		case "Block":
			toxicity = 0.95
		case "Review":
			toxicity = 0.6
		}
	}

	return map[string]float64{labeler.SignalToxicity: toxicity}, nil
}
