package services

import (
	"math"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/db"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

const (
	// PageSize applies to every paginated listing.
	PageSize = 10
	// GroupFeedLimit caps the group page at its first posts, unpaginated.
	GroupFeedLimit = 12

	// GlobalFeedKey is the fixed cache key for the landing-page post list.
	GlobalFeedKey = "feed:index"
	// GlobalFeedTTL is the only invalidation the global feed has. A freshly
	// created post may stay invisible on the landing page for up to this
	// long; that staleness window is deliberate.
	GlobalFeedTTL = 20 * time.Second
)

// Page is one screen of a paginated feed. Number is already clamped to the
// valid range.
type Page struct {
	Posts      []models.Post
	Number     int
	TotalPages int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// FeedService composes the post listings a viewer sees. The cache store is
// injected so tests can substitute their own instance.
type FeedService struct {
	cache cache.Store
}

func NewFeedService(store cache.Store) *FeedService {
	return &FeedService{cache: store}
}

// clampPage normalizes an externally supplied page number. Anything below 1
// becomes 1, anything beyond the last page becomes the last page.
func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func totalPages(total int64) int {
	pages := int(math.Ceil(float64(total) / float64(PageSize)))
	if pages == 0 {
		pages = 1
	}
	return pages
}

// GlobalFeed returns one page of all posts, newest first. The full ordered
// collection is cached under GlobalFeedKey; on a miss it is loaded from
// storage and stored with GlobalFeedTTL. Expiry is the only invalidation.
func (s *FeedService) GlobalFeed(page int) Page {
	var posts []models.Post
	if cached, ok := s.cache.Get(GlobalFeedKey); ok {
		posts = cached.([]models.Post)
	} else {
		db.DB.Preload("User").Preload("Group").
			Order("created_at DESC, id DESC").
			Find(&posts)
		FillCommentCounts(posts)
		s.cache.Set(GlobalFeedKey, posts, GlobalFeedTTL)
	}

	pages := totalPages(int64(len(posts)))
	page = clampPage(page, pages)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(posts) {
		end = len(posts)
	}

	return Page{Posts: posts[start:end], Number: page, TotalPages: pages}
}

// FollowingFeed returns one page of posts authored by everyone the viewer
// follows, newest first. Always uncached: a follower sees a new post
// immediately.
func (s *FeedService) FollowingFeed(viewerID uint, page int) Page {
	followed := db.DB.Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", viewerID)

	return paginate(func() *gorm.DB {
		return db.DB.Model(&models.Post{}).Where("user_id IN (?)", followed)
	}, page)
}

// ProfileFeed returns one page of a single author's posts, newest first.
func (s *FeedService) ProfileFeed(authorID uint, page int) Page {
	return paginate(func() *gorm.DB {
		return db.DB.Model(&models.Post{}).Where("user_id = ?", authorID)
	}, page)
}

// GroupFeed returns the first GroupFeedLimit posts of a group, newest
// first. The group page is not paginated.
func (s *FeedService) GroupFeed(groupID uint) []models.Post {
	var posts []models.Post
	db.DB.Preload("User").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Limit(GroupFeedLimit).
		Find(&posts)
	FillCommentCounts(posts)
	return posts
}

// paginate counts, clamps the page number, then fetches the matching slice.
// base must build a fresh query each call.
func paginate(base func() *gorm.DB, page int) Page {
	var total int64
	base().Count(&total)

	pages := totalPages(total)
	page = clampPage(page, pages)

	var posts []models.Post
	base().Preload("User").Preload("Group").
		Order("created_at DESC, id DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&posts)
	FillCommentCounts(posts)

	return Page{Posts: posts, Number: page, TotalPages: pages}
}
