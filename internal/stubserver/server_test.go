package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkr/internal/auth"
	"linkr/internal/config"
	"linkr/internal/models"
	"linkr/internal/remote"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:    "test-secret",
		FeedLimit:    20,
		StubDBDriver: "sqlite",
		DBName:       uuid.NewString(),
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	return NewServer(cfg, db)
}

func mintUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		AvatarURL: "https://i.pravatar.cc/150",
	}
	token, err := auth.MintToken(s.cfg.JWTSecret, user)
	require.NoError(t, err)
	user.Token = token
	return user
}

func request(t *testing.T, s *Server, method, path string, body any, user *models.User) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+user.Token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createPost(t *testing.T, s *Server, user *models.User, message string) string {
	t.Helper()
	resp := request(t, s, http.MethodPost, "/posts", fiber.Map{"message": message}, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[map[string]string](t, resp)
	return created["id"]
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp := request(t, s, http.MethodPost, "/posts", fiber.Map{"message": "hi"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "Authorization header required", body["error"])
}

func TestCreatePost_BlankMessageIsRejected(t *testing.T) {
	s := newTestServer(t)
	user := mintUser(t, s, "joana")

	resp := request(t, s, http.MethodPost, "/posts", fiber.Map{"message": ""}, user)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "Message can't be blank", body["error"])
}

func TestFeed_ContainsCreatedPost(t *testing.T) {
	s := newTestServer(t)
	user := mintUser(t, s, "joana")
	postID := createPost(t, s, user, "first post")

	resp := request(t, s, http.MethodGet, "/posts?limit=20&order=created_at&direction=desc", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feed := decodeBody[[]models.Post](t, resp)

	require.Len(t, feed, 1)
	assert.Equal(t, postID, feed[0].ID)
	assert.Equal(t, "joana", feed[0].Username)
	assert.Equal(t, 0, feed[0].LikesCount)
}

func TestHashtag_FiltersByMessage(t *testing.T) {
	s := newTestServer(t)
	user := mintUser(t, s, "joana")
	tagged := createPost(t, s, user, "shipping things #golang")
	createPost(t, s, user, "lunch break")

	resp := request(t, s, http.MethodGet, "/hashtag/golang", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feed := decodeBody[[]models.Post](t, resp)

	require.Len(t, feed, 1)
	assert.Equal(t, tagged, feed[0].ID)
}

func TestLikeFlow(t *testing.T) {
	s := newTestServer(t)
	author := mintUser(t, s, "joana")
	liker := mintUser(t, s, "maria")
	postID := createPost(t, s, author, "like me")

	resp := request(t, s, http.MethodGet, "/likes/"+postID, nil, liker)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeBody[bool](t, resp))

	resp = request(t, s, http.MethodPost, "/likes/"+postID, nil, liker)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Liking twice stays a single like.
	resp = request(t, s, http.MethodPost, "/likes/"+postID, nil, liker)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, s, http.MethodGet, "/likes/"+postID, nil, liker)
	assert.True(t, decodeBody[bool](t, resp))

	resp = request(t, s, http.MethodGet, "/likes?postId="+postID+"&limit=3", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"maria"}, decodeBody[[]string](t, resp))

	resp = request(t, s, http.MethodGet, "/posts", nil, nil)
	feed := decodeBody[[]models.Post](t, resp)
	require.Len(t, feed, 1)
	assert.Equal(t, 1, feed[0].LikesCount)

	resp = request(t, s, http.MethodDelete, "/likes/"+postID, nil, liker)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, s, http.MethodGet, "/likes/"+postID, nil, liker)
	assert.False(t, decodeBody[bool](t, resp))
}

func TestCommentCounter(t *testing.T) {
	s := newTestServer(t)
	author := mintUser(t, s, "joana")
	postID := createPost(t, s, author, "talk to me")

	for i := 0; i < 3; i++ {
		require.NoError(t, s.db.Create(&CommentRow{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    author.ID,
			Message:   "a comment",
			CreatedAt: time.Now(),
		}).Error)
	}

	resp := request(t, s, http.MethodGet, "/comments/counter/"+postID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decodeBody[int](t, resp))
}

func TestDeletePost_OnlyAuthor(t *testing.T) {
	s := newTestServer(t)
	author := mintUser(t, s, "joana")
	other := mintUser(t, s, "maria")
	postID := createPost(t, s, author, "mine")

	resp := request(t, s, http.MethodDelete, "/posts/"+postID, nil, other)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "You cannot delete this post", body["error"])

	resp = request(t, s, http.MethodDelete, "/posts/"+postID, nil, author)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, s, http.MethodGet, "/posts", nil, nil)
	assert.Empty(t, decodeBody[[]models.Post](t, resp))
}

func TestUpdatePost_AuthorAndValidation(t *testing.T) {
	s := newTestServer(t)
	author := mintUser(t, s, "joana")
	other := mintUser(t, s, "maria")
	postID := createPost(t, s, author, "draft")

	resp := request(t, s, http.MethodPut, "/posts/"+postID, fiber.Map{"message": "final"}, other)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, s, http.MethodPut, "/posts/"+postID, fiber.Map{"message": ""}, author)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = request(t, s, http.MethodPut, "/posts/"+postID, fiber.Map{"message": "final"}, author)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, s, http.MethodGet, "/posts", nil, nil)
	feed := decodeBody[[]models.Post](t, resp)
	require.Len(t, feed, 1)
	assert.Equal(t, "final", feed[0].Message)
}

func TestShareFlow(t *testing.T) {
	s := newTestServer(t)
	author := mintUser(t, s, "joana")
	sharer := mintUser(t, s, "maria")
	postID := createPost(t, s, author, "worth sharing")

	resp := request(t, s, http.MethodPost, "/share/"+postID, nil, sharer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	shareID := decodeBody[map[string]string](t, resp)["id"]
	require.NotEmpty(t, shareID)
	require.NotEqual(t, postID, shareID)

	resp = request(t, s, http.MethodGet, "/posts", nil, nil)
	feed := decodeBody[[]models.Post](t, resp)
	require.Len(t, feed, 2)

	var wrapper *models.Post
	for i := range feed {
		if feed[i].ID == shareID {
			wrapper = &feed[i]
		}
	}
	require.NotNil(t, wrapper, "feed contains the repost wrapper")
	assert.Equal(t, sharer.ID, wrapper.RepostUserID)
	assert.Equal(t, "maria", wrapper.RepostUsername)
	assert.Equal(t, author.ID, wrapper.UserID, "wrapper keeps the original author")
	assert.Equal(t, "worth sharing", wrapper.Message)

	// Only the reposting user can undo it.
	resp = request(t, s, http.MethodDelete, "/share/"+shareID, nil, author)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, s, http.MethodDelete, "/share/"+shareID, nil, sharer)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, s, http.MethodGet, "/posts", nil, nil)
	assert.Len(t, decodeBody[[]models.Post](t, resp), 1)
}

func TestSeed_PopulatesOnceAndIsIdempotent(t *testing.T) {
	s := newTestServer(t)

	require.NoError(t, Seed(s.db))

	var users, posts int64
	require.NoError(t, s.db.Model(&UserRow{}).Count(&users).Error)
	require.NoError(t, s.db.Model(&PostRow{}).Count(&posts).Error)
	assert.Positive(t, users)
	assert.Positive(t, posts)

	require.NoError(t, Seed(s.db))
	var usersAfter int64
	require.NoError(t, s.db.Model(&UserRow{}).Count(&usersAfter).Error)
	assert.Equal(t, users, usersAfter)
}

// appDoer routes the typed client's requests into the in-process stub.
type appDoer struct {
	app *fiber.App
}

func (d appDoer) Do(req *http.Request) (*http.Response, error) {
	return d.app.Test(req, -1)
}

func TestRemoteClient_AgainstStub(t *testing.T) {
	s := newTestServer(t)
	author := mintUser(t, s, "joana")
	liker := mintUser(t, s, "maria")
	postID := createPost(t, s, author, "end to end")

	client := remote.NewClient("http://stub.local", appDoer{app: s.app})
	likerCtx := auth.WithUser(context.Background(), liker)

	feed, err := client.FetchFeed(likerCtx, remote.Filter{Limit: 20})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, postID, feed[0].ID)

	require.NoError(t, client.Like(likerCtx, postID))

	liked, err := client.FetchLikeStatus(likerCtx, postID)
	require.NoError(t, err)
	assert.True(t, liked)

	sample, err := client.FetchLikeSample(likerCtx, postID, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"maria"}, sample)

	count, err := client.FetchCommentCount(likerCtx, postID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// A rejected edit surfaces the stub's message and status.
	err = client.EditPost(likerCtx, postID, "not my post")
	var remoteErr *models.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Equal(t, "You cannot edit this post", remoteErr.Message)

	require.NoError(t, client.Unlike(likerCtx, postID))
	liked, err = client.FetchLikeStatus(likerCtx, postID)
	require.NoError(t, err)
	assert.False(t, liked)
}
