package services

import (
	"errors"

	"inkwell/internal/db"
	"inkwell/internal/models"
)

// ErrSelfFollow is returned when a user tries to subscribe to themself.
// The route guard also avoids this case, but the graph enforces it as an
// invariant rather than relying on the caller.
var ErrSelfFollow = errors.New("users cannot follow themselves")

// Follow creates the subscription edge (userID -> authorID). Following an
// author twice is a no-op: the existing edge is kept and no duplicate is
// created.
func Follow(userID, authorID uint) error {
	if userID == authorID {
		return ErrSelfFollow
	}

	var edge models.Follow
	err := db.DB.Where("user_id = ? AND author_id = ?", userID, authorID).
		FirstOrCreate(&edge, models.Follow{UserID: userID, AuthorID: authorID}).Error
	return err
}

// Unfollow removes the edge (userID -> authorID). A missing edge is not an
// error.
func Unfollow(userID, authorID uint) error {
	return db.DB.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether userID subscribes to authorID.
func IsFollowing(userID, authorID uint) bool {
	var count int64
	db.DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count)
	return count > 0
}

// FollowerCount returns how many users follow the given author.
func FollowerCount(authorID uint) int64 {
	var count int64
	db.DB.Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count)
	return count
}

// FollowingCount returns how many authors the given user follows.
func FollowingCount(userID uint) int64 {
	var count int64
	db.DB.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count)
	return count
}
