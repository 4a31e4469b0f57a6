package handlers

import (
	"errors"
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	feed *services.FeedService
}

func NewUserHandler(feed *services.FeedService) *UserHandler {
	return &UserHandler{feed: feed}
}

// Profile - author page /:username with their posts, follower counts and
// the viewer's follow state
func (h *UserHandler) Profile(c *gin.Context) {
	author, ok := findUser(c)
	if !ok {
		return
	}

	page := h.feed.ProfileFeed(author.ID, utils.StringToInt(c.Query("page")))

	isFollowing := false
	viewer := currentUser(c)
	if viewer != nil {
		isFollowing = services.IsFollowing(viewer.ID, author.ID)
	}

	Render(c, http.StatusOK, "users/profile.html", gin.H{
		"Title":          author.Username,
		"Author":         author,
		"Page":           page,
		"FollowerCount":  services.FollowerCount(author.ID),
		"FollowingCount": services.FollowingCount(author.ID),
		"IsFollowing":    isFollowing,
	})
}

// Follow - POST /:username/follow, creates the edge unless the viewer is
// the target
func (h *UserHandler) Follow(c *gin.Context) {
	viewer := currentUser(c)
	author, ok := findUser(c)
	if !ok {
		return
	}

	if viewer.ID != author.ID {
		if err := services.Follow(viewer.ID, author.ID); err != nil && !errors.Is(err, services.ErrSelfFollow) {
			RenderError(c, http.StatusInternalServerError, "Could not follow")
			return
		}
	}

	c.Redirect(http.StatusFound, "/"+author.Username)
}

// Unfollow - POST /:username/unfollow, removing a missing edge is a no-op
func (h *UserHandler) Unfollow(c *gin.Context) {
	viewer := currentUser(c)
	author, ok := findUser(c)
	if !ok {
		return
	}

	if err := services.Unfollow(viewer.ID, author.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not unfollow")
		return
	}

	c.Redirect(http.StatusFound, "/"+author.Username)
}

func findUser(c *gin.Context) (*models.User, bool) {
	username := c.Param("username")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	return &user, true
}
