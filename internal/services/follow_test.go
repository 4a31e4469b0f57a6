package services

import (
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUnfollowRoundTrip(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	require.NoError(t, Follow(alice.ID, bob.ID))
	assert.True(t, IsFollowing(alice.ID, bob.ID))
	assert.EqualValues(t, 1, FollowerCount(bob.ID))
	assert.EqualValues(t, 1, FollowingCount(alice.ID))

	// The edge is directed: bob does not follow alice back.
	assert.False(t, IsFollowing(bob.ID, alice.ID))

	require.NoError(t, Unfollow(alice.ID, bob.ID))
	assert.False(t, IsFollowing(alice.ID, bob.ID))
	assert.EqualValues(t, 0, FollowerCount(bob.ID))
	assert.EqualValues(t, 0, FollowingCount(alice.ID))
}

func TestFollowIsIdempotent(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	require.NoError(t, Follow(alice.ID, bob.ID))
	require.NoError(t, Follow(alice.ID, bob.ID))

	var count int64
	db.DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", alice.ID, bob.ID).
		Count(&count)
	assert.EqualValues(t, 1, count, "double follow must not create a second edge")
}

func TestSelfFollowRejected(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")

	err := Follow(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.False(t, IsFollowing(alice.ID, alice.ID))
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")

	assert.NoError(t, Unfollow(alice.ID, bob.ID))
}
