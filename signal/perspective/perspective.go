// Package perspective provides a signal source backed by the Google
// Perspective API (commentanalyzer). TOXICITY maps directly; the
// experimental FLIRTATION attribute stands in for the sarcasm signal.
package perspective

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	labeler "github.com/skymod/labeler"
)

const sourceName = "perspective"

const defaultEndpoint = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// Config holds the configuration for the Perspective source.
type Config struct {
	// APIKey is the Google API key (required).
	APIKey string

	// Endpoint overrides the API endpoint (for testing).
	Endpoint string

	// Timeout bounds each HTTP call.
	Timeout time.Duration

	// Languages hints the comment language. Empty defaults to ["en"].
	Languages []string

	// HTTPClient overrides the HTTP client (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns the default Perspective configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:  defaultEndpoint,
		Timeout:   10 * time.Second,
		Languages: []string{"en"},
	}
}

// Source implements signal.Source over the Perspective API.
type Source struct {
	config Config
	client *http.Client
}

// New creates a new Perspective source.
func New(cfg Config) (*Source, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: perspective api key", labeler.ErrMissingConfig)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en"}
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Source{config: cfg, client: client}, nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return sourceName
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	Languages           []string                  `json:"languages"`
	RequestedAttributes map[string]map[string]any `json:"requestedAttributes"`
	DoNotStore          bool                      `json:"doNotStore"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Scores queries Perspective for toxicity and flirtation probabilities.
func (s *Source) Scores(ctx context.Context, text string) (map[string]float64, error) {
	reqBody := analyzeRequest{
		Languages: s.config.Languages,
		RequestedAttributes: map[string]map[string]any{
			"TOXICITY":   {},
			"FLIRTATION": {},
		},
		DoNotStore: true,
	}
	reqBody.Comment.Text = text

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	url := s.config.Endpoint + "?key=" + s.config.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, labeler.NewSignalError(sourceName, "request_failed", err.Error()).
			WithCategory(labeler.ErrorCategoryNetwork).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, labeler.NewSignalError(sourceName, "read_failed", err.Error()).WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, labeler.NewSignalError(sourceName, "bad_status", string(body)).
			WithStatusCode(resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, labeler.NewSignalError(sourceName, "bad_response", err.Error()).WithCause(err)
	}

	scores := make(map[string]float64, 2)
	if attr, ok := parsed.AttributeScores["TOXICITY"]; ok {
		scores[labeler.SignalToxicity] = attr.SummaryScore.Value
	}
	if attr, ok := parsed.AttributeScores["FLIRTATION"]; ok {
		scores[labeler.SignalSarcasm] = attr.SummaryScore.Value
	}

	return scores, nil
}
