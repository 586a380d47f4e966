// Package posts fetches Bluesky post text and converts between at://
// URIs and bsky.app URLs.
package posts

import "context"

// Post is a fetched Bluesky post.
type Post struct {
	URI  string
	CID  string
	Text string
}

// Provider fetches post content for classification. *Client implements
// this over the public XRPC API.
type Provider interface {
	// GetPost fetches the post behind a bsky.app URL or at:// URI.
	GetPost(ctx context.Context, ref string) (*Post, error)
}
