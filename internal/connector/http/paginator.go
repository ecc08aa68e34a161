package http

import (
	"context"
	"encoding/json"
)

// =============================================================================
// CURSOR
// =============================================================================

// Cursor is an opaque continuation token handed back by a paginated API.
// Presence is explicit: a zero Cursor means "no more pages". The token is
// passed through verbatim to the next request, never constructed locally.
// An empty-string token from the upstream terminates pagination instead of
// looping.
type Cursor struct {
	path string
	ok   bool
}

// NoCursor returns the absent cursor.
func NoCursor() Cursor {
	return Cursor{}
}

// CursorFrom wraps an upstream-supplied continuation token. An empty token
// yields the absent cursor.
func CursorFrom(path string) Cursor {
	if path == "" {
		return Cursor{}
	}
	return Cursor{path: path, ok: true}
}

// Valid reports whether another page exists.
func (c Cursor) Valid() bool { return c.ok }

// Path returns the verbatim continuation token. Only valid when Valid().
func (c Cursor) Path() string { return c.path }

// =============================================================================
// PAGINATION STRATEGIES
// =============================================================================

// Paginator handles API pagination.
type Paginator interface {
	// NextPage returns the request for the next page, or nil if done.
	NextPage(ctx context.Context, resp *Response) (*Request, error)
}

// LinkPaginator follows a continuation link embedded in each response body
// (the "next" property of Shortcut search responses). The link is an opaque
// URL or path supplied by the upstream and is replayed verbatim.
type LinkPaginator struct {
	// NextKey is the JSON property holding the continuation link (default: "next").
	NextKey string
}

// NewLinkPaginator creates a paginator that chains response "next" links.
func NewLinkPaginator() *LinkPaginator {
	return &LinkPaginator{NextKey: "next"}
}

// NextCursor extracts the continuation cursor from a response body.
func (p *LinkPaginator) NextCursor(resp *Response) (Cursor, error) {
	var data map[string]any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return NoCursor(), err
	}

	key := p.NextKey
	if key == "" {
		key = "next"
	}
	if next, ok := data[key]; ok {
		if s, ok := next.(string); ok {
			return CursorFrom(s), nil
		}
	}
	return NoCursor(), nil
}

// NextPage returns the next page request based on response.
func (p *LinkPaginator) NextPage(ctx context.Context, resp *Response) (*Request, error) {
	cursor, err := p.NextCursor(resp)
	if err != nil {
		return nil, err
	}
	if !cursor.Valid() {
		return nil, nil
	}
	return &Request{Method: "GET", Path: cursor.Path()}, nil
}
