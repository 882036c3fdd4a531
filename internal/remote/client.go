// Package remote is the typed client for the remote post service. It owns
// request construction, credential attachment, and error classification;
// all state reconciliation lives in the engine packages.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"linkr/internal/auth"
	"linkr/internal/models"
	"linkr/internal/observability"
)

// Service exposes the remote post service operations the engine depends on.
type Service interface {
	FetchFeed(ctx context.Context, filter Filter) ([]models.Post, error)
	FetchLikeStatus(ctx context.Context, postID string) (bool, error)
	FetchLikeSample(ctx context.Context, postID string, limit int) ([]string, error)
	Like(ctx context.Context, postID string) error
	Unlike(ctx context.Context, postID string) error
	FetchCommentCount(ctx context.Context, postID string) (int, error)
	DeletePost(ctx context.Context, postID string) error
	DeleteRepost(ctx context.Context, shareID string) error
	Repost(ctx context.Context, postID string) error
	EditPost(ctx context.Context, postID, message string) error
	Publish(ctx context.Context, sharedURL, message string) error
}

// Filter selects which feed to load. An empty Hashtag means the global
// timeline, ordered by creation time descending and capped at Limit.
type Filter struct {
	Hashtag string
	Limit   int
}

// Doer abstracts the HTTP transport so tests can route requests into an
// in-process stub server.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	doer    Doer
}

// NewClient returns a client for the post service at baseURL. A nil doer
// falls back to a default http.Client.
func NewClient(baseURL string, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
	}
}

func (c *Client) FetchFeed(ctx context.Context, filter Filter) ([]models.Post, error) {
	var path string
	if filter.Hashtag != "" {
		path = "/hashtag/" + url.PathEscape(filter.Hashtag)
	} else {
		limit := filter.Limit
		if limit <= 0 {
			limit = 20
		}
		path = fmt.Sprintf("/posts?limit=%d&order=created_at&direction=desc", limit)
	}

	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) FetchLikeStatus(ctx context.Context, postID string) (bool, error) {
	var liked bool
	if err := c.do(ctx, http.MethodGet, "/likes/"+url.PathEscape(postID), nil, &liked); err != nil {
		return false, err
	}
	return liked, nil
}

func (c *Client) FetchLikeSample(ctx context.Context, postID string, limit int) ([]string, error) {
	path := "/likes?postId=" + url.QueryEscape(postID) + "&limit=" + strconv.Itoa(limit)
	var names []string
	if err := c.do(ctx, http.MethodGet, path, nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) Like(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodPost, "/likes/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) Unlike(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/likes/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) FetchCommentCount(ctx context.Context, postID string) (int, error) {
	var count int
	if err := c.do(ctx, http.MethodGet, "/comments/counter/"+url.PathEscape(postID), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) DeleteRepost(ctx context.Context, shareID string) error {
	return c.do(ctx, http.MethodDelete, "/share/"+url.PathEscape(shareID), nil, nil)
}

func (c *Client) Repost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodPost, "/share/"+url.PathEscape(postID), struct{}{}, nil)
}

func (c *Client) EditPost(ctx context.Context, postID, message string) error {
	body := map[string]string{"message": message}
	return c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(postID), body, nil)
}

func (c *Client) Publish(ctx context.Context, sharedURL, message string) error {
	body := map[string]string{"sharedUrl": sharedURL, "message": message}
	return c.do(ctx, http.MethodPost, "/posts", body, nil)
}

// do executes one request. The credential is taken from the context per
// call; status codes outside 2xx become a RemoteError carrying the server's
// response text.
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user := auth.UserFrom(ctx); user != nil && user.Token != "" {
		req.Header.Set("Authorization", "Bearer "+user.Token)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		observability.RemoteErrors.WithLabelValues(endpointLabel(method, path)).Inc()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.RemoteErrors.WithLabelValues(endpointLabel(method, path)).Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &models.RemoteError{
			Status:  resp.StatusCode,
			Message: decodeErrorBody(raw),
		}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeErrorBody extracts a display message from an error response. The
// service answers either plain text or {"error": "..."}.
func decodeErrorBody(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}
	var wrapped struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Error != "" {
		return wrapped.Error
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && plain != "" {
		return plain
	}
	return text
}

// endpointLabel collapses paths with IDs into a stable metric label.
func endpointLabel(method, path string) string {
	trimmed := path
	if i := strings.IndexAny(trimmed[1:], "/?"); i >= 0 {
		trimmed = trimmed[:i+1]
	}
	return method + " " + trimmed
}
