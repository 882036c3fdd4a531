// Command timeline drives the feed engine against a post service from the
// terminal: it loads the feed, prints each entry with its like summary, and
// can toggle a like, delete a post, or publish a new one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"linkr/internal/auth"
	"linkr/internal/cache"
	"linkr/internal/config"
	"linkr/internal/engine"
	"linkr/internal/feed"
	"linkr/internal/models"
	"linkr/internal/observability"
	"linkr/internal/remote"
	"linkr/internal/store"
	"linkr/internal/workflows"
)

// consoleNotifier prints workflow notices to stderr in place of a dialog.
type consoleNotifier struct{}

func (consoleNotifier) Error(title, text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", title, text)
}

func main() {
	username := flag.String("user", "dev", "username to act as")
	hashtag := flag.String("hashtag", "", "load the feed for a hashtag instead of the timeline")
	likeID := flag.String("like", "", "toggle the like on a post id after loading")
	deleteID := flag.String("delete", "", "delete a post id after loading")
	publish := flag.String("publish", "", "publish a new post with this message")
	shareURL := flag.String("url", "", "shared url for -publish")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)

	user := &models.User{ID: uuid.NewString(), Username: *username}
	token, err := auth.MintToken(cfg.JWTSecret, user)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}
	user.Token = token

	ctx := auth.WithUser(context.Background(), user)
	ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())

	svc := remote.NewClient(cfg.APIURL, nil)
	st := store.New()
	notifier := consoleNotifier{}
	coord := engine.NewCoordinator(svc, st, engine.WithSampleLimit(cfg.LikerSampleLimit))
	ctrl := feed.NewController(svc, st, coord,
		feed.WithPageLimit(cfg.FeedLimit),
		feed.WithNotifier(notifier),
	)
	wf := workflows.New(svc, st, notifier, ctrl.Load)

	if *hashtag != "" {
		ctrl.SetHashtag(*hashtag)
	}

	if *publish != "" {
		ctrl.Publish(ctx, *shareURL, *publish)
		ctrl.Wait()
	}

	ctrl.Load(ctx)
	coord.Wait()

	if ctrl.Phase() == feed.PhaseFailed {
		log.Fatalf("Feed load failed: %v", ctrl.Err())
	}

	if *likeID != "" {
		coord.ToggleLike(ctx, *likeID)
		coord.Wait()
	}

	if *deleteID != "" {
		wf.RequestDelete(*deleteID)
		wf.ConfirmDelete(ctx, *deleteID)
		wf.Wait()
		coord.Wait()
	}

	printFeed(ctrl)
}

func printFeed(ctrl *feed.Controller) {
	if ctrl.Phase() == feed.PhaseEmpty {
		fmt.Println(feed.EmptyFeedMessage)
		return
	}

	for _, snap := range ctrl.Posts() {
		p := snap.Post
		author := p.Username
		if p.IsRepost() {
			author = fmt.Sprintf("%s (reposted by %s)", p.Username, p.RepostUsername)
		}
		fmt.Printf("%s  @%s\n", p.ID, author)
		fmt.Printf("  %s\n", snap.Message)
		fmt.Printf("  likes: %d  comments: %d  reposts: %d\n", snap.LikeCount, snap.CommentCount, snap.RepostCount)
		if snap.LikeSummary != "" {
			fmt.Printf("  %s\n", snap.LikeSummary)
		}
		fmt.Println()
	}
}
