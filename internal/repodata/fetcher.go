package repodata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/repofetch/internal/logger"
	"github.com/MrSnakeDoc/repofetch/internal/service"
	"github.com/MrSnakeDoc/repofetch/internal/utils"
)

// ResultKind tags the outcome of a fetch. Both values are normal, expected
// outcomes; a remote document that has not changed is not a failure.
type ResultKind int

const (
	// Fresh means the remote document changed and Body holds its new content.
	Fresh ResultKind = iota
	// NotModified means the server answered 304; the caller should keep
	// using whatever it already has cached.
	NotModified
)

// Result is the outcome of one conditional fetch.
type Result struct {
	Kind ResultKind
	Body []byte
}

// Client issues conditional GETs for one channel subdir's index document.
// It performs a single blocking request per Fetch with no internal retries;
// retry policy belongs to the caller.
type Client struct {
	http       service.HTTPClient
	url        string // channel subdir URL, without the filename
	repodataFn string
	opts       TranslateOptions
}

func NewClient(httpc service.HTTPClient, url, repodataFn string, opts TranslateOptions) *Client {
	if httpc == nil {
		httpc = service.NewDefaultHTTPClient(60 * time.Second)
	}
	return &Client{
		http:       httpc,
		url:        url,
		repodataFn: repodataFn,
		opts:       opts,
	}
}

// URL returns the channel subdir URL this client fetches from.
func (c *Client) URL() string { return c.url }

// Fetch performs one conditional GET using the validators in state.
//
//   - 304: returns NotModified and leaves state untouched.
//   - 2xx: returns Fresh with the body, and repopulates state with the
//     channel URL plus whichever validator headers the response carried.
//     Size/mtime are not stamped here; that happens in Store.Save once the
//     caller has written the body to disk.
//   - anything else: returns a translated *HTTPError (or, for unsupported
//     schemes, the transport's own error).
func (c *Client) Fetch(ctx context.Context, state *State) (Result, error) {
	fullURL := utils.JoinURL(c.url, c.repodataFn)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request for %s: %w", fullURL, err)
	}
	if state.Etag != "" {
		req.Header.Set("If-None-Match", state.Etag)
	}
	if state.Mod != "" {
		req.Header.Set("If-Modified-Since", state.Mod)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, Translate(c.url, c.repodataFn, err, 0, "", elapsed, c.opts)
	}
	defer utils.Try(resp.Body.Close)

	logger.Debug("GET %s -> %d (%s)", fullURL, resp.StatusCode, elapsed)

	if resp.StatusCode == http.StatusNotModified {
		return Result{Kind: NotModified}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("unexpected status %d for %s", resp.StatusCode, fullURL)
		return Result{}, Translate(
			c.url, c.repodataFn, statusErr,
			resp.StatusCode, http.StatusText(resp.StatusCode), elapsed, c.opts,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response body from %s: %w", fullURL, err)
	}

	state.ReplaceWithHeaders(
		c.url,
		resp.Header.Get("Etag"),
		resp.Header.Get("Last-Modified"),
		resp.Header.Get("Cache-Control"),
	)

	return Result{Kind: Fresh, Body: body}, nil
}
