// File: /controllers/user_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocktalk-api/models"
	"stocktalk-api/storage"
	"stocktalk-api/utils"
)

type UserController struct {
	store storage.Storage
}

func NewUserController(store storage.Storage) *UserController {
	return &UserController{store: store}
}

// respondStorageError maps store errors onto HTTP statuses.
func respondStorageError(c *gin.Context, err error, notFoundMessage, conflictMessage string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case errors.Is(err, storage.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflictMessage})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (uc *UserController) CreateUser(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Bio      string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidUsername(req.Username) {
		utils.SendValidationError(c, "Username must be 3-30 characters of letters, digits, dots or underscores")
		return
	}

	user := models.User{
		ID:       userID,
		Name:     req.Name,
		Username: req.Username,
		Bio:      req.Bio,
	}

	if err := uc.store.CreateUser(c.Request.Context(), &user); err != nil {
		respondStorageError(c, err, "User not found", "User or username already exists")
		return
	}

	created, err := uc.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (uc *UserController) UsernameAvailability(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := uc.store.UsernameTaken(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": !taken})
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Bio      string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidUsername(req.Username) {
		utils.SendValidationError(c, "Username must be 3-30 characters of letters, digits, dots or underscores")
		return
	}

	user, err := uc.store.UpdateUser(c.Request.Context(), userID, storage.UserUpdate{
		Name:     req.Name,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		respondStorageError(c, err, "User not found", "Username already taken")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := uc.store.DeleteUser(c.Request.Context(), userID); err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (uc *UserController) GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := uc.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.store.GetUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfileImage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		ProfileImageURL string `json:"profile_image_url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := uc.store.UpdateProfileImage(c.Request.Context(), userID, req.ProfileImageURL); err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile image updated successfully"})
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		TargetUserID string `json:"targetUserId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if userID == req.TargetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	if err := uc.store.Follow(c.Request.Context(), userID, req.TargetUserID); err != nil {
		respondStorageError(c, err, "User not found", "Already following this user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully followed user"})
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		TargetUserID string `json:"targetUserId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := uc.store.Unfollow(c.Request.Context(), userID, req.TargetUserID); err != nil {
		respondStorageError(c, err, "User not found", "Not following this user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully unfollowed user"})
}

func (uc *UserController) IsFollowing(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("targetUserId")

	following, err := uc.store.IsFollowing(c.Request.Context(), userID, targetUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_following": following})
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	followers, err := uc.store.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, followers)
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	following, err := uc.store.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		respondStorageError(c, err, "User not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, following)
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	prefix := c.Query("username")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	limit := parseLimit(c)
	users, err := uc.store.SearchUsers(c.Request.Context(), prefix, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Search results never expose watchlists.
	for _, user := range users {
		user.StockLists = nil
	}

	c.JSON(http.StatusOK, users)
}
