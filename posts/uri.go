package posts

import (
	"fmt"
	"strings"

	labeler "github.com/skymod/labeler"
)

const postCollection = "app.bsky.feed.post"

// URIToURL converts an at:// post URI into its bsky.app URL.
//
//	at://did:plc:abc123/app.bsky.feed.post/3xyz
//	-> https://bsky.app/profile/did:plc:abc123/post/3xyz
//
// URLs pass through unchanged, and unrecognized input is returned
// as-is so callers can surface it when debugging.
func URIToURL(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	if !strings.HasPrefix(uri, "at://") {
		return uri
	}

	parts := strings.Split(strings.TrimPrefix(uri, "at://"), "/")
	if len(parts) < 3 {
		return uri
	}

	did := parts[0]
	rkey := parts[len(parts)-1]
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", did, rkey)
}

// ParsedRef identifies a post by its author and record key. Authority
// may be a DID or a handle that still needs resolution.
type ParsedRef struct {
	Authority string
	RKey      string
}

// IsDID reports whether the authority is already a DID.
func (r ParsedRef) IsDID() bool {
	return strings.HasPrefix(r.Authority, "did:")
}

// URI renders the ref as an at:// URI. Only valid once Authority is a DID.
func (r ParsedRef) URI() string {
	return fmt.Sprintf("at://%s/%s/%s", r.Authority, postCollection, r.RKey)
}

// ParseRef extracts the authority and record key from a bsky.app post
// URL or an at:// URI.
func ParseRef(ref string) (ParsedRef, error) {
	ref = strings.TrimSpace(ref)

	if strings.HasPrefix(ref, "at://") {
		parts := strings.Split(strings.TrimPrefix(ref, "at://"), "/")
		if len(parts) < 3 || parts[0] == "" || parts[len(parts)-1] == "" {
			return ParsedRef{}, fmt.Errorf("%w: %q", labeler.ErrInvalidPostURL, ref)
		}
		return ParsedRef{Authority: parts[0], RKey: parts[len(parts)-1]}, nil
	}

	trimmed := strings.TrimPrefix(strings.TrimPrefix(ref, "https://"), "http://")
	parts := strings.Split(strings.TrimRight(trimmed, "/"), "/")
	// Expected shape: bsky.app/profile/<authority>/post/<rkey>
	if len(parts) != 5 || parts[1] != "profile" || parts[3] != "post" {
		return ParsedRef{}, fmt.Errorf("%w: %q", labeler.ErrInvalidPostURL, ref)
	}
	if parts[2] == "" || parts[4] == "" {
		return ParsedRef{}, fmt.Errorf("%w: %q", labeler.ErrInvalidPostURL, ref)
	}

	return ParsedRef{Authority: parts[2], RKey: parts[4]}, nil
}
