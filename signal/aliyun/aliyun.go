// Package aliyun provides a signal source backed by Alibaba Cloud
// Content Moderation 2.0 (green). The riskLevel in the response reason
// maps to a toxicity probability.
package aliyun

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	green "github.com/alibabacloud-go/green-20220302/v2/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"

	labeler "github.com/skymod/labeler"
)

const sourceName = "aliyun"

// Config holds the configuration for the Aliyun source.
type Config struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	Endpoint        string
	Timeout         time.Duration

	// Service selects the text moderation service type.
	Service string
}

// DefaultConfig returns the default Aliyun configuration.
func DefaultConfig() Config {
	return Config{
		Region:   "cn-shanghai",
		Endpoint: "green-cip.cn-shanghai.aliyuncs.com",
		Timeout:  30 * time.Second,
		Service:  "comment_detection",
	}
}

// Source implements signal.Source over Aliyun green.
type Source struct {
	config Config
	client *green.Client
}

// New creates a new Aliyun source.
func New(cfg Config) (*Source, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("%w: aliyun credentials", labeler.ErrMissingConfig)
	}
	if cfg.Service == "" {
		cfg.Service = "comment_detection"
	}

	s := &Source{config: cfg}
	if err := s.initClient(); err != nil {
		return nil, fmt.Errorf("failed to init aliyun client: %w", err)
	}
	return s, nil
}

func (s *Source) initClient() error {
	config := &openapi.Config{
		AccessKeyId:     tea.String(s.config.AccessKeyID),
		AccessKeySecret: tea.String(s.config.AccessKeySecret),
		RegionId:        tea.String(s.config.Region),
		Endpoint:        tea.String(s.config.Endpoint),
	}

	client, err := green.NewClient(config)
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return sourceName
}

// Scores submits the text for moderation and maps the risk level to a
// toxicity probability.
func (s *Source) Scores(ctx context.Context, text string) (map[string]float64, error) {
	serviceParams := map[string]interface{}{
		"content": text,
	}
	serviceParamsJSON, err := json.Marshal(serviceParams)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal service params: %w", err)
	}

	req := &green.TextModerationRequest{
		Service:           tea.String(s.config.Service),
		ServiceParameters: tea.String(string(serviceParamsJSON)),
	}

	runtime := &util.RuntimeOptions{}
	resp, err := s.client.TextModerationWithOptions(req, runtime)
	if err != nil {
		return nil, labeler.NewSignalError(sourceName, "request_failed", err.Error()).
			WithCategory(labeler.ErrorCategoryNetwork).WithCause(err)
	}

	if resp.Body == nil || resp.Body.Code == nil {
		return nil, labeler.NewSignalError(sourceName, "empty_response", "green returned no body")
	}
	if *resp.Body.Code != 200 {
		return nil, labeler.NewSignalError(sourceName,
			fmt.Sprintf("code_%d", *resp.Body.Code), tea.StringValue(resp.Body.Message)).
			WithStatusCode(int(*resp.Body.Code))
	}

	toxicity := 0.0
	if data := resp.Body.Data; data != nil {
		if data.Labels != nil && *data.Labels != "" && *data.Labels != "normal" && *data.Labels != "nonLabel" {
			toxicity = 0.6
		}
		if data.Reason != nil && *data.Reason != "" {
			var reasonData map[string]interface{}
			if err := json.Unmarshal([]byte(*data.Reason), &reasonData); err == nil {
				if riskLevel, ok := reasonData["riskLevel"].(string); ok {
					switch riskLevel {
					case "high":
						toxicity = 0.95
					case "medium":
						toxicity = 0.7
					case "low":
						toxicity = 0.4
					}
				}
			}
		}
	}

	return map[string]float64{labeler.SignalToxicity: toxicity}, nil
}
