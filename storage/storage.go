// Package storage defines the store contract the controllers depend on.
package storage

import (
	"context"
	"errors"

	"stocktalk-api/models"
)

// ErrNotFound is returned when a referenced user, post, comment or list
// does not exist (including dangling pagination cursors).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned for duplicate follows/likes and for reverse
// operations with no edge to remove ("not following", "not liked").
var ErrConflict = errors.New("conflict")

// UserUpdate carries the mutable profile fields.
type UserUpdate struct {
	Name     string
	Username string
	Bio      string
}

// Storage provides methods for interacting with the backing database.
// Implementations must apply every multi-step mutation (edge + counters,
// cascading deletes) atomically.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error)
	UpdateProfileImage(ctx context.Context, id, imageURL string) error
	DeleteUser(ctx context.Context, id string) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	SearchUsers(ctx context.Context, usernamePrefix string, limit int) ([]*models.User, error)

	// Social graph
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowers(ctx context.Context, userID string) ([]*models.User, error)
	ListFollowing(ctx context.Context, userID string) ([]*models.User, error)

	// Posts
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListFeedPosts(ctx context.Context, viewerID string, limit int, startAfter string) ([]*models.Post, error)
	ListUserPosts(ctx context.Context, authorID string, limit int, startAfter string) ([]*models.Post, error)
	LikePost(ctx context.Context, userID, postID string) error
	UnlikePost(ctx context.Context, userID, postID string) error
	IsPostLiked(ctx context.Context, userID, postID string) (bool, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string, limit int, startAfter string) ([]*models.Comment, error)
	LikeComment(ctx context.Context, userID, postID, commentID string) error
	UnlikeComment(ctx context.Context, userID, postID, commentID string) error
	IsCommentLiked(ctx context.Context, userID, postID, commentID string) (bool, error)
	HasCommentedPost(ctx context.Context, userID, postID string) (bool, error)

	// Stock lists
	CreateStockList(ctx context.Context, userID string, list *models.StockList) error
	UpdateStockList(ctx context.Context, userID, name string, newName string, tickers []string) error
	DeleteStockList(ctx context.Context, userID, name string) error
	ListStockLists(ctx context.Context, userID string) ([]*models.StockList, error)
}
