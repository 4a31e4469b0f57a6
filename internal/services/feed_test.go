package services

import (
	"fmt"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed() (*FeedService, cache.Store) {
	store := cache.New(16)
	return NewFeedService(store), store
}

func TestGlobalFeedOrdering(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	base := time.Now().Add(-time.Hour)
	createPostAt(t, alice, "oldest", base)
	createPostAt(t, alice, "middle", base.Add(time.Minute))
	createPostAt(t, alice, "newest", base.Add(2*time.Minute))

	feed, _ := newTestFeed()
	page := feed.GlobalFeed(1)

	require.Len(t, page.Posts, 3)
	assert.Equal(t, "newest", page.Posts[0].Text)
	assert.Equal(t, "oldest", page.Posts[2].Text)
}

func TestGlobalFeedPaginationClamping(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		createPostAt(t, alice, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Second))
	}

	feed, _ := newTestFeed()

	page := feed.GlobalFeed(1)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Posts, PageSize)

	// Beyond the last page clamps to the last page, never errors and never
	// silently falls back to page 1.
	last := feed.GlobalFeed(99)
	assert.Equal(t, 3, last.Number)
	assert.Len(t, last.Posts, 5)
	assert.Equal(t, "post 0", last.Posts[4].Text)

	// Below the first page clamps to page 1.
	first := feed.GlobalFeed(-7)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "post 24", first.Posts[0].Text)
}

func TestGlobalFeedEmpty(t *testing.T) {
	setupTestDB(t)

	feed, _ := newTestFeed()
	page := feed.GlobalFeed(5)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasPrev())
	assert.False(t, page.HasNext())
}

func TestGlobalFeedIsCachedUntilExpiry(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	createPost(t, alice, "first")

	feed, store := newTestFeed()

	page := feed.GlobalFeed(1)
	require.Len(t, page.Posts, 1)

	// A post created after the cache was populated stays invisible until
	// the entry expires. That staleness window is part of the contract.
	createPost(t, alice, "second")
	page = feed.GlobalFeed(1)
	assert.Len(t, page.Posts, 1, "global feed must serve the cached collection")

	// Profile feed is uncached and sees the new post immediately.
	profile := feed.ProfileFeed(alice.ID, 1)
	assert.Len(t, profile.Posts, 2)

	// Once the entry is gone (expiry), the next read repopulates.
	store.Delete(GlobalFeedKey)
	page = feed.GlobalFeed(1)
	assert.Len(t, page.Posts, 2)
}

func TestFollowingFeedEndToEnd(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	createPost(t, bob, "Test post")

	feed, _ := newTestFeed()

	// Before following, alice's personalized feed is empty.
	assert.Empty(t, feed.FollowingFeed(alice.ID, 1).Posts)

	require.NoError(t, Follow(alice.ID, bob.ID))

	page := feed.FollowingFeed(alice.ID, 1)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Test post", page.Posts[0].Text)

	// The author's own personalized feed never includes their own posts.
	assert.Empty(t, feed.FollowingFeed(bob.ID, 1).Posts)

	require.NoError(t, Unfollow(alice.ID, bob.ID))
	assert.Empty(t, feed.FollowingFeed(alice.ID, 1).Posts)
}

func TestFollowingFeedOnlyFollowedAuthors(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	base := time.Now().Add(-time.Hour)
	createPostAt(t, bob, "from bob", base)
	createPostAt(t, carol, "from carol", base.Add(time.Minute))

	require.NoError(t, Follow(alice.ID, bob.ID))
	require.NoError(t, Follow(alice.ID, carol.ID))

	feed, _ := newTestFeed()
	page := feed.FollowingFeed(alice.ID, 1)

	require.Len(t, page.Posts, 2)
	assert.Equal(t, "from carol", page.Posts[0].Text)
	assert.Equal(t, "from bob", page.Posts[1].Text)
}

func TestProfileFeedClamping(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		createPostAt(t, alice, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Second))
	}
	createPost(t, bob, "not alice's")

	feed, _ := newTestFeed()

	page := feed.ProfileFeed(alice.ID, 42)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Posts, 5)
	for _, post := range page.Posts {
		assert.Equal(t, alice.ID, post.UserID)
	}
}

func TestGroupFeedCap(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	group := createGroup(t, "tech")
	other := createGroup(t, "life")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		post := createPostAt(t, alice, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, db.DB.Model(post).UpdateColumn("group_id", group.ID).Error)
	}

	feed, _ := newTestFeed()

	posts := feed.GroupFeed(group.ID)
	require.Len(t, posts, GroupFeedLimit)
	assert.Equal(t, "post 14", posts[0].Text)

	assert.Empty(t, feed.GroupFeed(other.ID))
}
