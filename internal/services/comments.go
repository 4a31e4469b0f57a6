package services

import (
	"errors"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/models"
)

var (
	ErrEmptyComment = errors.New("comment text is required")
	ErrPostNotFound = errors.New("post does not exist")
)

// AddComment attaches a comment to an existing post. The timestamp is
// assigned by the server at insert; comments are immutable afterwards.
func AddComment(postID, userID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		return nil, ErrPostNotFound
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: userID,
		Text:   text,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns a post's comments, newest first.
func ListComments(postID uint) []models.Comment {
	var comments []models.Comment
	db.DB.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments)
	return comments
}

// FillCommentCounts batch-fills the per-post comment counters for a listing.
func FillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}
