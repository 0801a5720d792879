// File: /controllers/post_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stocktalk-api/models"
	"stocktalk-api/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type PostController struct {
	store storage.Storage
}

func NewPostController(store storage.Storage) *PostController {
	return &PostController{store: store}
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		ID:      uuid.New().String(),
		UserID:  userID,
		Content: req.Content,
	}

	if err := pc.store.CreatePost(c.Request.Context(), &post); err != nil {
		respondStorageError(c, err, "User not found", "Post already exists")
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")

	post, err := pc.store.GetPost(c.Request.Context(), postID)
	if err != nil {
		respondStorageError(c, err, "Post not found", "Conflict")
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := pc.store.DeletePost(c.Request.Context(), postID); err != nil {
		respondStorageError(c, err, "Post not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// GetFeed returns posts from followed users plus the viewer's own,
// newest first, paginated with a start_after cursor.
func (pc *PostController) GetFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	limit := parseLimit(c)
	startAfter := c.Query("start_after")

	posts, err := pc.store.ListFeedPosts(c.Request.Context(), userID, limit, startAfter)
	if err != nil {
		respondStorageError(c, err, "Cursor post not found", "Conflict")
		return
	}

	if err := pc.attachLikeStatus(c, userID, posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (pc *PostController) GetUserPosts(c *gin.Context) {
	viewerID := c.GetString("user_id")

	authorID := c.Query("user_id")
	if authorID == "" {
		authorID = viewerID
	}

	limit := parseLimit(c)
	startAfter := c.Query("start_after")

	posts, err := pc.store.ListUserPosts(c.Request.Context(), authorID, limit, startAfter)
	if err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	if err := pc.attachLikeStatus(c, viewerID, posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (pc *PostController) attachLikeStatus(c *gin.Context, viewerID string, posts []*models.Post) error {
	for _, post := range posts {
		liked, err := pc.store.IsPostLiked(c.Request.Context(), viewerID, post.ID)
		if err != nil {
			return err
		}
		post.IsLikedByUser = liked
	}
	return nil
}

func (pc *PostController) LikePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")

	if err := pc.store.LikePost(c.Request.Context(), userID, postID); err != nil {
		respondStorageError(c, err, "Post not found", "Post already liked")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post liked successfully"})
}

func (pc *PostController) UnlikePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")

	if err := pc.store.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		respondStorageError(c, err, "Post not found", "Post not liked")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked successfully"})
}
