package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"strconv"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	feed *services.FeedService
}

func NewPostHandler(feed *services.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

// Index - global feed /
func (h *PostHandler) Index(c *gin.Context) {
	page := h.feed.GlobalFeed(utils.StringToInt(c.Query("page")))

	Render(c, http.StatusOK, "posts/index.html", gin.H{
		"Title": "Latest posts",
		"Page":  page,
	})
}

// GroupPosts - first posts of a group /group/:slug
func (h *PostHandler) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")

	var group models.Group
	if err := db.DB.Where("slug = ?", slug).First(&group).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Group not found")
		return
	}

	posts := h.feed.GroupFeed(group.ID)

	Render(c, http.StatusOK, "posts/group.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Posts": posts,
	})
}

// FollowIndex - personalized feed /follow, posts from followed authors only
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := currentUser(c)
	page := h.feed.FollowingFeed(user.ID, utils.StringToInt(c.Query("page")))

	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title": "Your feed",
		"Page":  page,
	})
}

// renderForm renders the shared create/edit form template with the group
// choices filled in.
func renderForm(c *gin.Context, code int, obj gin.H) {
	if _, ok := obj["SelectedGroupID"]; !ok {
		obj["SelectedGroupID"] = uint(0)
	}
	if _, ok := obj["Text"]; !ok {
		obj["Text"] = ""
	}
	if _, ok := obj["Title"]; !ok {
		if _, edit := obj["Post"]; edit {
			obj["Title"] = "Edit post"
		} else {
			obj["Title"] = "New post"
		}
	}
	obj["Groups"] = loadGroups()
	Render(c, code, "posts/new.html", obj)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	renderForm(c, http.StatusOK, gin.H{"Title": "New post"})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)

	text := c.PostForm("text")
	if text == "" {
		renderForm(c, http.StatusBadRequest, gin.H{"Error": "Text is required"})
		return
	}

	groupID, ok := parseGroupID(c.PostForm("group_id"))
	if !ok {
		renderForm(c, http.StatusBadRequest, gin.H{"Error": "Unknown group", "Text": text})
		return
	}

	// Validate and store the image before any row is written: a rejected
	// upload must leave no post behind.
	imageURL, err := saveUploadedImage(c)
	if err != nil {
		code, msg := uploadFailure(err)
		renderForm(c, code, gin.H{"Error": msg, "Text": text, "SelectedGroupID": deref(groupID)})
		return
	}

	post := models.Post{
		UserID:  user.ID,
		GroupID: groupID,
		Text:    text,
		Image:   imageURL,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		renderForm(c, http.StatusInternalServerError, gin.H{"Error": "Could not save the post", "Text": text})
		return
	}

	// The global feed cache is left alone on purpose: it expires on its
	// own and the new post shows up within the TTL.
	c.Redirect(http.StatusFound, "/")
}

// Detail - single post view /:username/:postID
func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := findPost(c)
	if !ok {
		return
	}

	comments := services.ListComments(post.ID)

	type renderedComment struct {
		models.Comment
		TextHTML template.HTML
	}
	rendered := make([]renderedComment, len(comments))
	for i, com := range comments {
		rendered[i] = renderedComment{Comment: com, TextHTML: utils.RenderMarkdown(com.Text)}
	}

	Render(c, http.StatusOK, "posts/detail.html", gin.H{
		"Title":        fmt.Sprintf("Post by %s", post.User.Username),
		"Post":         post,
		"PostText":     utils.RenderMarkdown(post.Text),
		"Comments":     rendered,
		"CommentCount": len(comments),
	})
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := currentUser(c)
	post, ok := findPost(c)
	if !ok {
		return
	}

	// Only the author edits; everyone else lands on the read view.
	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, postPath(post))
		return
	}

	renderForm(c, http.StatusOK, gin.H{
		"Title":           "Edit post",
		"Post":            post,
		"Text":            post.Text,
		"SelectedGroupID": deref(post.GroupID),
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := currentUser(c)
	post, ok := findPost(c)
	if !ok {
		return
	}

	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, postPath(post))
		return
	}

	text := c.PostForm("text")
	if text == "" {
		renderForm(c, http.StatusBadRequest, gin.H{"Error": "Text is required", "Post": post})
		return
	}

	groupID, ok := parseGroupID(c.PostForm("group_id"))
	if !ok {
		renderForm(c, http.StatusBadRequest, gin.H{"Error": "Unknown group", "Post": post, "Text": text})
		return
	}

	imageURL, err := saveUploadedImage(c)
	if err != nil {
		code, msg := uploadFailure(err)
		renderForm(c, code, gin.H{"Error": msg, "Post": post, "Text": text, "SelectedGroupID": deref(groupID)})
		return
	}

	updates := map[string]any{
		"text":     text,
		"group_id": groupID,
	}
	if imageURL != "" {
		updates["image"] = imageURL
	}

	// CreatedAt stays untouched; only author-editable fields are written.
	if err := db.DB.Model(post).Updates(updates).Error; err != nil {
		renderForm(c, http.StatusInternalServerError, gin.H{"Error": "Could not save the post", "Post": post, "Text": text})
		return
	}

	c.Redirect(http.StatusFound, postPath(post))
}

// CreateComment - /:username/:postID/comment
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := currentUser(c)
	post, ok := findPost(c)
	if !ok {
		return
	}

	_, err := services.AddComment(post.ID, user.ID, c.PostForm("text"))
	if err != nil && !errors.Is(err, services.ErrEmptyComment) {
		RenderError(c, http.StatusInternalServerError, "Could not save the comment")
		return
	}

	c.Redirect(http.StatusFound, postPath(post))
}

// findPost resolves the /:username/:postID pair. A post that exists but
// belongs to a different author is treated as not found.
func findPost(c *gin.Context) (*models.Post, bool) {
	username := c.Param("username")
	postID, err := strconv.Atoi(c.Param("postID"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return nil, false
	}

	var author models.User
	if err := db.DB.Where("username = ?", username).First(&author).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return nil, false
	}

	var post models.Post
	if err := db.DB.Preload("User").Preload("Group").
		Where("id = ? AND user_id = ?", postID, author.ID).
		First(&post).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return nil, false
	}

	return &post, true
}

func postPath(post *models.Post) string {
	return fmt.Sprintf("/%s/%d", post.User.Username, post.ID)
}

func loadGroups() []models.Group {
	var groups []models.Group
	db.DB.Order("id ASC").Find(&groups)
	return groups
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// parseGroupID turns the optional form value into a nullable group
// reference. Empty means no group; a non-existent group is a validation
// failure.
func parseGroupID(raw string) (*uint, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, false
	}

	var group models.Group
	if err := db.DB.First(&group, id).Error; err != nil {
		return nil, false
	}
	return &group.ID, true
}

func uploadFailure(err error) (int, string) {
	if errors.Is(err, services.ErrNotAnImage) {
		return http.StatusBadRequest, "Only image files are accepted"
	}
	return http.StatusInternalServerError, "Could not store the image"
}

// saveUploadedImage stores the optional image field. Absent uploads return
// an empty URL and no error.
func saveUploadedImage(c *gin.Context) (string, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil || header == nil || header.Size == 0 {
		return "", nil
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	result, err := services.SaveImage(file, header)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}
