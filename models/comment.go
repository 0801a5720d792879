// File: /models/comment.go
package models

import (
	"time"
)

type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:191" bson:"_id"`
	PostID     string    `json:"postId" gorm:"not null;size:191;index:idx_comments_post_timestamp" bson:"post_id"`
	UserID     string    `json:"userId" gorm:"not null;size:191;index" bson:"user_id"`
	Content    string    `json:"content" gorm:"not null;type:text" bson:"content"`
	Timestamp  time.Time `json:"timestamp" gorm:"index:idx_comments_post_timestamp" bson:"timestamp"`
	LikesCount int       `json:"likes_count" gorm:"default:0" bson:"likes_count"`

	IsLikedByUser bool `json:"isLikedByUser" gorm:"-" bson:"-"`
}

type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey" bson:"-"`
	CommentID string    `json:"comment_id" gorm:"not null;size:191;uniqueIndex:uk_comment_likes_comment_user" bson:"comment_id"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;index" bson:"post_id"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_comment_likes_comment_user;index" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"liked_at"`
}

// CommentedPost marks that a user has at least one live comment on a post.
// The entry is removed together with the author's last comment on that post.
type CommentedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey" bson:"-"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_commented_posts_user_post" bson:"user_id"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_commented_posts_user_post;index" bson:"post_id"`
	CreatedAt time.Time `json:"created_at" bson:"commented_at"`
}
