// Package likes derives the "who liked this" display text from a post's
// like state.
package likes

import (
	"fmt"
	"strings"
)

// Summary renders the liker tooltip text for a post. sample is the capped
// liker-name sample with "you" substituted at the front when the current
// user is among them; a nil sample means the fetch has not completed yet and
// yields no text.
//
// The wording per count, including the differing "other"/"others" treatment
// at three and four likes, is kept exactly as the product shipped it.
func Summary(likeCount int, sample []string, likedByYou bool) string {
	if sample == nil {
		return ""
	}

	joined := strings.Join(sample, ", ")
	remainder := likeCount - len(sample)

	switch likeCount {
	case 0:
		return "No one has liked it yet"
	case 1:
		return fmt.Sprintf("Liked by %s", at(sample, 0))
	case 2:
		return fmt.Sprintf("Liked by %s and %s", at(sample, 0), at(sample, 1))
	case 3:
		if likedByYou {
			return fmt.Sprintf("Liked by %s, %s and %s", at(sample, 0), at(sample, 1), at(sample, 2))
		}
		return fmt.Sprintf("Liked by %s and %d other", joined, remainder)
	case 4:
		if likedByYou {
			return fmt.Sprintf("Liked by %s and %d other", joined, remainder)
		}
		return fmt.Sprintf("Liked by %s and %d others", joined, remainder)
	default:
		return fmt.Sprintf("Liked by %s and %d others", joined, remainder)
	}
}

func at(sample []string, i int) string {
	if i < len(sample) {
		return sample[i]
	}
	return ""
}
