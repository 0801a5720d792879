// File: /controllers/comment_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stocktalk-api/models"
	"stocktalk-api/storage"
)

type CommentController struct {
	store storage.Storage
}

func NewCommentController(store storage.Storage) *CommentController {
	return &CommentController{store: store}
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		PostID  string `json:"postId" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		ID:      uuid.New().String(),
		PostID:  req.PostID,
		UserID:  userID,
		Content: req.Content,
	}

	if err := cc.store.CreateComment(c.Request.Context(), &comment); err != nil {
		respondStorageError(c, err, "Post not found", "Comment already exists")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")
	commentID := c.Param("commentId")

	comment, err := cc.store.GetComment(c.Request.Context(), postID, commentID)
	if err != nil {
		respondStorageError(c, err, "Comment not found", "Conflict")
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := cc.store.DeleteComment(c.Request.Context(), postID, commentID); err != nil {
		respondStorageError(c, err, "Comment not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (cc *CommentController) GetComments(c *gin.Context) {
	userID := c.GetString("user_id")

	postID := c.Query("post_id")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id is required"})
		return
	}

	limit := parseLimit(c)
	startAfter := c.Query("start_after")

	comments, err := cc.store.ListComments(c.Request.Context(), postID, limit, startAfter)
	if err != nil {
		respondStorageError(c, err, "Post or cursor comment not found", "Conflict")
		return
	}

	for _, comment := range comments {
		liked, err := cc.store.IsCommentLiked(c.Request.Context(), userID, postID, comment.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		comment.IsLikedByUser = liked
	}

	c.JSON(http.StatusOK, comments)
}

func (cc *CommentController) LikeComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")
	commentID := c.Param("commentId")

	if err := cc.store.LikeComment(c.Request.Context(), userID, postID, commentID); err != nil {
		respondStorageError(c, err, "Comment not found", "Comment already liked")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment liked successfully"})
}

func (cc *CommentController) UnlikeComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("postId")
	commentID := c.Param("commentId")

	if err := cc.store.UnlikeComment(c.Request.Context(), userID, postID, commentID); err != nil {
		respondStorageError(c, err, "Comment not found", "Comment not liked")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment unliked successfully"})
}
