package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkr/internal/auth"
	"linkr/internal/models"
)

// doerFunc routes client requests into a test handler.
type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func recordingClient(t *testing.T, status int, body string) (*Client, *[]*http.Request, *[][]byte) {
	t.Helper()
	var reqs []*http.Request
	var bodies [][]byte
	c := NewClient("http://stub.local/", doerFunc(func(req *http.Request) (*http.Response, error) {
		reqs = append(reqs, req)
		if req.Body != nil {
			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			bodies = append(bodies, raw)
		} else {
			bodies = append(bodies, nil)
		}
		return jsonResponse(status, body), nil
	}))
	return c, &reqs, &bodies
}

func TestFetchFeed_TimelineQuery(t *testing.T) {
	c, reqs, _ := recordingClient(t, 200, `[{"id":"p-1","message":"hello"}]`)

	posts, err := c.FetchFeed(context.Background(), Filter{Limit: 20})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p-1", posts[0].ID)

	req := (*reqs)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/posts", req.URL.Path)
	assert.Equal(t, "20", req.URL.Query().Get("limit"))
	assert.Equal(t, "created_at", req.URL.Query().Get("order"))
	assert.Equal(t, "desc", req.URL.Query().Get("direction"))
}

func TestFetchFeed_HashtagPath(t *testing.T) {
	c, reqs, _ := recordingClient(t, 200, `[]`)

	_, err := c.FetchFeed(context.Background(), Filter{Hashtag: "golang"})
	require.NoError(t, err)
	assert.Equal(t, "/hashtag/golang", (*reqs)[0].URL.Path)
}

func TestDo_AttachesBearerFromContext(t *testing.T) {
	c, reqs, _ := recordingClient(t, 200, `true`)

	ctx := auth.WithUser(context.Background(), &models.User{ID: "u-1", Username: "joana", Token: "tok-123"})
	liked, err := c.FetchLikeStatus(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, "Bearer tok-123", (*reqs)[0].Header.Get("Authorization"))

	// Without a user on the context no credential is sent.
	_, err = c.FetchLikeStatus(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, (*reqs)[1].Header.Get("Authorization"))
}

func TestFetchLikeSample_Query(t *testing.T) {
	c, reqs, _ := recordingClient(t, 200, `["maria","carlos"]`)

	names, err := c.FetchLikeSample(context.Background(), "p-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"maria", "carlos"}, names)

	req := (*reqs)[0]
	assert.Equal(t, "/likes", req.URL.Path)
	assert.Equal(t, "p-1", req.URL.Query().Get("postId"))
	assert.Equal(t, "3", req.URL.Query().Get("limit"))
}

func TestMutationEndpoints(t *testing.T) {
	cases := []struct {
		name   string
		call   func(*Client, context.Context) error
		method string
		path   string
	}{
		{"like", func(c *Client, ctx context.Context) error { return c.Like(ctx, "p-1") }, http.MethodPost, "/likes/p-1"},
		{"unlike", func(c *Client, ctx context.Context) error { return c.Unlike(ctx, "p-1") }, http.MethodDelete, "/likes/p-1"},
		{"delete post", func(c *Client, ctx context.Context) error { return c.DeletePost(ctx, "p-1") }, http.MethodDelete, "/posts/p-1"},
		{"delete repost", func(c *Client, ctx context.Context) error { return c.DeleteRepost(ctx, "s-1") }, http.MethodDelete, "/share/s-1"},
		{"repost", func(c *Client, ctx context.Context) error { return c.Repost(ctx, "p-1") }, http.MethodPost, "/share/p-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, reqs, _ := recordingClient(t, 204, "")
			require.NoError(t, tc.call(c, context.Background()))
			assert.Equal(t, tc.method, (*reqs)[0].Method)
			assert.Equal(t, tc.path, (*reqs)[0].URL.Path)
		})
	}
}

func TestEditPost_Body(t *testing.T) {
	c, reqs, bodies := recordingClient(t, 200, "{}")

	require.NoError(t, c.EditPost(context.Background(), "p-1", "updated text"))

	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/posts/p-1", (*reqs)[0].URL.Path)
	var payload map[string]string
	require.NoError(t, json.Unmarshal((*bodies)[0], &payload))
	assert.Equal(t, map[string]string{"message": "updated text"}, payload)
}

func TestPublish_Body(t *testing.T) {
	c, reqs, bodies := recordingClient(t, 201, "{}")

	require.NoError(t, c.Publish(context.Background(), "https://example.com/a", "look at this"))

	assert.Equal(t, http.MethodPost, (*reqs)[0].Method)
	assert.Equal(t, "/posts", (*reqs)[0].URL.Path)
	var payload map[string]string
	require.NoError(t, json.Unmarshal((*bodies)[0], &payload))
	assert.Equal(t, "https://example.com/a", payload["sharedUrl"])
	assert.Equal(t, "look at this", payload["message"])
}

func TestDo_ErrorCarriesStatusAndServerMessage(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error object", 422, `{"error":"Message is too long"}`, "Message is too long"},
		{"json string", 400, `"Invalid post id"`, "Invalid post id"},
		{"plain text", 500, `something broke`, "something broke"},
		{"empty body", 401, ``, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := recordingClient(t, tc.status, tc.body)
			err := c.DeletePost(context.Background(), "p-1")
			var remoteErr *models.RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tc.status, remoteErr.Status)
			assert.Equal(t, tc.message, remoteErr.Message)
		})
	}
}

func TestDo_TransportErrorIsNotARemoteError(t *testing.T) {
	c := NewClient("http://stub.local", doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	}))
	err := c.Like(context.Background(), "p-1")
	require.Error(t, err)
	var remoteErr *models.RemoteError
	assert.False(t, errors.As(err, &remoteErr))
}
