package stubserver

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkr/internal/models"
)

func (s *Server) listFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.cfg.FeedLimit)
	entries, err := s.feedEntries(limit, "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load posts",
		})
	}
	return c.JSON(entries)
}

func (s *Server) listByHashtag(c *fiber.Ctx) error {
	entries, err := s.feedEntries(s.cfg.FeedLimit, c.Params("tag"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load posts",
		})
	}
	return c.JSON(entries)
}

func (s *Server) createPost(c *fiber.Ctx) error {
	user := currentUser(c)

	var body struct {
		SharedURL string `json:"sharedUrl"`
		Message   string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.Message == "" && body.SharedURL == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Message can't be blank",
		})
	}

	if err := s.ensureUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create post",
		})
	}

	post := PostRow{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Message:   body.Message,
		SharedURL: body.SharedURL,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&post).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create post",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": post.ID})
}

func (s *Server) updatePost(c *fiber.Ctx) error {
	user := currentUser(c)

	var post PostRow
	if err := s.db.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	if post.UserID != user.ID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "You cannot edit this post",
		})
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.Message == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Message can't be blank",
		})
	}

	if err := s.db.Model(&post).Update("message", body.Message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update post",
		})
	}
	return c.JSON(fiber.Map{"id": post.ID})
}

func (s *Server) deletePost(c *fiber.Ctx) error {
	user := currentUser(c)

	var post PostRow
	if err := s.db.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	if post.UserID != user.ID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "You cannot delete this post",
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LikeRow{}, "post_id = ?", post.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&CommentRow{}, "post_id = ?", post.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ShareRow{}, "post_id = ?", post.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete post",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) likeStatus(c *fiber.Ctx) error {
	user := currentUser(c)

	var count int64
	if err := s.db.Model(&LikeRow{}).
		Where("post_id = ? AND user_id = ?", c.Params("id"), user.ID).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load like status",
		})
	}
	return c.JSON(count > 0)
}

func (s *Server) likeSample(c *fiber.Ctx) error {
	postID := c.Query("postId")
	limit := c.QueryInt("limit", 3)

	var names []string
	err := s.db.Model(&LikeRow{}).
		Joins("JOIN users ON users.id = likes.user_id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC").
		Limit(limit).
		Pluck("users.username", &names).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load likes",
		})
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

func (s *Server) createLike(c *fiber.Ctx) error {
	user := currentUser(c)

	var post PostRow
	if err := s.db.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	if err := s.ensureUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to like post",
		})
	}

	like := LikeRow{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	// Liking twice is idempotent.
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to like post",
		})
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) deleteLike(c *fiber.Ctx) error {
	user := currentUser(c)

	err := s.db.Delete(&LikeRow{}, "post_id = ? AND user_id = ?", c.Params("id"), user.ID).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unlike post",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) commentCount(c *fiber.Ctx) error {
	var count int64
	if err := s.db.Model(&CommentRow{}).
		Where("post_id = ?", c.Params("id")).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count comments",
		})
	}
	return c.JSON(count)
}

func (s *Server) createShare(c *fiber.Ctx) error {
	user := currentUser(c)

	var post PostRow
	if err := s.db.First(&post, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	if err := s.ensureUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to repost",
		})
	}

	share := ShareRow{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&share).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to repost",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": share.ID})
}

func (s *Server) deleteShare(c *fiber.Ctx) error {
	user := currentUser(c)

	var share ShareRow
	if err := s.db.First(&share, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Repost not found",
		})
	}
	if share.UserID != user.ID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "You cannot delete this repost",
		})
	}

	if err := s.db.Delete(&share).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete repost",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ensureUser upserts the caller's identity so feed entries can resolve the
// author. Tokens are minted outside the stub, so a first write may arrive
// from a user the database has never seen.
func (s *Server) ensureUser(user *models.User) error {
	row := UserRow{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.AvatarURL,
		CreatedAt:    time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// feedEntries assembles the feed the way the real service does: original
// posts plus repost wrappers, newest first. A hashtag filter matches
// original posts only.
func (s *Server) feedEntries(limit int, hashtag string) ([]models.Post, error) {
	postQuery := s.db.Order("created_at DESC")
	if hashtag != "" {
		postQuery = postQuery.Where("message LIKE ?", "%#"+hashtag+"%")
	}

	var posts []PostRow
	if err := postQuery.Find(&posts).Error; err != nil {
		return nil, err
	}

	users, err := s.userIndex()
	if err != nil {
		return nil, err
	}
	likeCounts, err := s.countsByPost(&LikeRow{})
	if err != nil {
		return nil, err
	}
	shareCounts, err := s.countsByPost(&ShareRow{})
	if err != nil {
		return nil, err
	}

	type dated struct {
		at    time.Time
		entry models.Post
	}
	var feed []dated

	postByID := make(map[string]PostRow, len(posts))
	for _, p := range posts {
		postByID[p.ID] = p
		feed = append(feed, dated{p.CreatedAt, s.postEntry(p, users, likeCounts, shareCounts)})
	}

	if hashtag == "" {
		var shares []ShareRow
		if err := s.db.Find(&shares).Error; err != nil {
			return nil, err
		}
		for _, sh := range shares {
			p, ok := postByID[sh.PostID]
			if !ok {
				continue
			}
			entry := s.postEntry(p, users, likeCounts, shareCounts)
			entry.ID = sh.ID
			entry.RepostUserID = sh.UserID
			entry.RepostUsername = users[sh.UserID].Username
			feed = append(feed, dated{sh.CreatedAt, entry})
		}
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].at.After(feed[j].at) })
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}

	entries := make([]models.Post, len(feed))
	for i, d := range feed {
		entries[i] = d.entry
	}
	return entries, nil
}

func (s *Server) postEntry(p PostRow, users map[string]UserRow, likes, shares map[string]int) models.Post {
	author := users[p.UserID]
	return models.Post{
		ID:                 p.ID,
		UserID:             p.UserID,
		Username:           author.Username,
		ProfileImage:       author.ProfileImage,
		Message:            p.Message,
		LikesCount:         likes[p.ID],
		RepostsCount:       shares[p.ID],
		PreviewTitle:       p.PreviewTitle,
		PreviewDescription: p.PreviewDescription,
		PreviewImage:       p.PreviewImage,
		PreviewURL:         p.PreviewURL,
		SharedURL:          p.SharedURL,
	}
}

func (s *Server) userIndex() (map[string]UserRow, error) {
	var rows []UserRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	index := make(map[string]UserRow, len(rows))
	for _, r := range rows {
		index[r.ID] = r
	}
	return index, nil
}

func (s *Server) countsByPost(model any) (map[string]int, error) {
	var rows []struct {
		PostID string
		N      int
	}
	if err := s.db.Model(model).
		Select("post_id, COUNT(*) AS n").
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.N
	}
	return counts, nil
}
