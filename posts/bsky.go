package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	labeler "github.com/skymod/labeler"
)

const defaultXRPCBase = "https://public.api.bsky.app/xrpc"

// ClientConfig holds the configuration for the XRPC client.
type ClientConfig struct {
	// BaseURL overrides the XRPC endpoint (for testing).
	BaseURL string

	// Timeout bounds each HTTP call.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client (for testing).
	HTTPClient *http.Client
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL: defaultXRPCBase,
		Timeout: 10 * time.Second,
	}
}

// Client fetches posts via the public Bluesky XRPC API. No credentials
// are needed; the public AppView serves read-only queries.
type Client struct {
	config ClientConfig
	client *http.Client
}

// NewClient creates a new XRPC client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultXRPCBase
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{config: cfg, client: client}
}

type threadNode struct {
	Post *struct {
		URI    string `json:"uri"`
		CID    string `json:"cid"`
		Record struct {
			Text string `json:"text"`
		} `json:"record"`
	} `json:"post"`
	Parent  *threadNode  `json:"parent"`
	Replies []threadNode `json:"replies"`
}

type threadResponse struct {
	Thread *threadNode `json:"thread"`
}

// GetPost fetches the post behind a bsky.app URL or at:// URI, resolving
// the handle to a DID when needed.
func (c *Client) GetPost(ctx context.Context, ref string) (*Post, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	if !parsed.IsDID() {
		did, err := c.resolveHandle(ctx, parsed.Authority)
		if err != nil {
			return nil, err
		}
		parsed.Authority = did
	}

	uri := parsed.URI()
	thread, err := c.getPostThread(ctx, uri)
	if err != nil {
		return nil, err
	}
	if thread == nil || thread.Post == nil {
		return nil, fmt.Errorf("%w: %s", labeler.ErrPostNotFound, uri)
	}

	return &Post{
		URI:  thread.Post.URI,
		CID:  thread.Post.CID,
		Text: thread.Post.Record.Text,
	}, nil
}

// ResolvePostURL locates the post with the given CID inside the thread
// of uri and returns its canonical bsky.app URL. An empty string means
// the CID was not found; callers fall back to URIToURL(uri).
func (c *Client) ResolvePostURL(ctx context.Context, uri, cid string) (string, error) {
	if cid == "" {
		return "", nil
	}

	thread, err := c.getPostThread(ctx, uri)
	if err != nil {
		return "", err
	}

	post := findPostByCID(thread, cid)
	if post == nil || post.URI == "" {
		return "", nil
	}
	return URIToURL(post.URI), nil
}

func (c *Client) resolveHandle(ctx context.Context, handle string) (string, error) {
	var out struct {
		DID string `json:"did"`
	}
	params := url.Values{"handle": {handle}}
	if err := c.get(ctx, "com.atproto.identity.resolveHandle", params, &out); err != nil {
		return "", fmt.Errorf("failed to resolve handle %q: %w", handle, err)
	}
	if out.DID == "" {
		return "", fmt.Errorf("%w: handle %q resolved to empty did", labeler.ErrPostNotFound, handle)
	}
	return out.DID, nil
}

func (c *Client) getPostThread(ctx context.Context, uri string) (*threadNode, error) {
	var out threadResponse
	params := url.Values{"uri": {uri}}
	if err := c.get(ctx, "app.bsky.feed.getPostThread", params, &out); err != nil {
		return nil, err
	}
	return out.Thread, nil
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out any) error {
	endpoint := c.config.BaseURL + "/" + method + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %s returned %d: %s", labeler.ErrPostNotFound, method, resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d: %s", method, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// findPostByCID walks the thread tree depth-first, replies before the
// parent chain, and returns the post whose CID matches.
func findPostByCID(node *threadNode, cid string) *Post {
	if node == nil {
		return nil
	}
	if node.Post != nil && node.Post.CID == cid {
		return &Post{URI: node.Post.URI, CID: node.Post.CID, Text: node.Post.Record.Text}
	}
	for i := range node.Replies {
		if found := findPostByCID(&node.Replies[i], cid); found != nil {
			return found
		}
	}
	if node.Parent != nil {
		if found := findPostByCID(node.Parent, cid); found != nil {
			return found
		}
	}
	return nil
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
