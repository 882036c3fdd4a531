package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CommentCountKeyPrefix = "post:%s:comment_count"
)

const (
	// CommentCountTTL is deliberately short: the count refresh is coupled to
	// like activity rather than comment activity, so staleness is already
	// accepted and the cache only absorbs refresh bursts.
	CommentCountTTL = 15 * time.Second
)

func CommentCountKey(postID string) string {
	return fmt.Sprintf(CommentCountKeyPrefix, postID)
}

func InvalidateCommentCount(ctx context.Context, postID string) {
	Invalidate(ctx, CommentCountKey(postID))
}
