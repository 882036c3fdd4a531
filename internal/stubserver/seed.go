package stubserver

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var seedHashtags = []string{"golang", "coffee", "music", "travel", "photography"}

// Seed fills the stub database with fake users, posts, likes, comments, and
// reposts so the feed has something to show on first run. It is a no-op
// when users already exist.
func Seed(db *gorm.DB) error {
	var existing int64
	if err := db.Model(&UserRow{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing > 0 {
		return nil
	}

	faker := gofakeit.New(0)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]UserRow, 0, 12)
	for i := 0; i < 12; i++ {
		users = append(users, UserRow{
			ID:           uuid.NewString(),
			Username:     faker.Username(),
			ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?img=%d", i+1),
			CreatedAt:    time.Now().Add(-time.Duration(30+i) * 24 * time.Hour),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	posts := make([]PostRow, 0, 40)
	for i := 0; i < 40; i++ {
		author := users[rng.Intn(len(users))]
		message := faker.Sentence(rng.Intn(12) + 4)
		if rng.Intn(3) == 0 {
			message += " #" + seedHashtags[rng.Intn(len(seedHashtags))]
		}
		post := PostRow{
			ID:        uuid.NewString(),
			UserID:    author.ID,
			Message:   message,
			CreatedAt: time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour),
		}
		if rng.Intn(4) == 0 {
			post.SharedURL = faker.URL()
			post.PreviewTitle = faker.Sentence(5)
			post.PreviewDescription = faker.Sentence(10)
			post.PreviewImage = faker.ImageURL(640, 360)
			post.PreviewURL = post.SharedURL
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	var likes []LikeRow
	var comments []CommentRow
	var shares []ShareRow
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			if rng.Intn(4) == 0 {
				likes = append(likes, LikeRow{
					ID:        uuid.NewString(),
					PostID:    post.ID,
					UserID:    user.ID,
					CreatedAt: post.CreatedAt.Add(time.Duration(rng.Intn(60)) * time.Minute),
				})
			}
			if rng.Intn(8) == 0 {
				comments = append(comments, CommentRow{
					ID:        uuid.NewString(),
					PostID:    post.ID,
					UserID:    user.ID,
					Message:   faker.Sentence(rng.Intn(8) + 2),
					CreatedAt: post.CreatedAt.Add(time.Duration(rng.Intn(120)) * time.Minute),
				})
			}
			if rng.Intn(20) == 0 {
				shares = append(shares, ShareRow{
					ID:        uuid.NewString(),
					PostID:    post.ID,
					UserID:    user.ID,
					CreatedAt: post.CreatedAt.Add(time.Duration(rng.Intn(180)) * time.Minute),
				})
			}
		}
	}
	if len(likes) > 0 {
		if err := db.Create(&likes).Error; err != nil {
			return fmt.Errorf("failed to seed likes: %w", err)
		}
	}
	if len(comments) > 0 {
		if err := db.Create(&comments).Error; err != nil {
			return fmt.Errorf("failed to seed comments: %w", err)
		}
	}
	if len(shares) > 0 {
		if err := db.Create(&shares).Error; err != nil {
			return fmt.Errorf("failed to seed shares: %w", err)
		}
	}

	return nil
}
