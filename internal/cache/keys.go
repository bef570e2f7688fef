package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache TTLs. Entity caches live longer than list caches since lists churn
// with every write.
const (
	UserTTL     = 10 * time.Minute
	PostTTL     = 5 * time.Minute
	ListTTL     = 1 * time.Minute
	AuthorsTTL  = 2 * time.Minute
	CategoryTTL = 1 * time.Minute
)

// UserKey returns the cache key for a user by ID.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// PostKey returns the cache key for a post by ID.
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// PostsPageKey returns the cache key for a page of the global post feed.
func PostsPageKey(page, limit int) string {
	return fmt.Sprintf("posts:page:%d:%d", page, limit)
}

// AuthorsKey is the cache key for the author listing.
const AuthorsKey = "users:authors"

// CategoryKey returns the cache key for the first page of a category feed.
func CategoryKey(category string) string {
	return fmt.Sprintf("posts:cat:%s", category)
}

// UserPostsKey returns the cache key for a creator's post feed.
func UserPostsKey(creatorID uint) string {
	return fmt.Sprintf("posts:user:%d", creatorID)
}

// InvalidateUser drops the cached user entity and the author listing, which
// embeds user rows.
func InvalidateUser(ctx context.Context, id uint) {
	Delete(ctx, UserKey(id), AuthorsKey)
}

// InvalidatePost drops the cached post entity and every list that could
// contain it.
func InvalidatePost(ctx context.Context, postID, creatorID uint, category string) {
	Delete(ctx,
		PostKey(postID),
		PostsPageKey(1, 20),
		CategoryKey(category),
		UserPostsKey(creatorID),
	)
}

// InvalidatePostLists drops the list caches a new post lands in.
func InvalidatePostLists(ctx context.Context, creatorID uint, category string) {
	Delete(ctx,
		PostsPageKey(1, 20),
		CategoryKey(category),
		UserPostsKey(creatorID),
	)
}
