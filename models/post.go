// File: /models/post.go
package models

import (
	"time"
)

type Post struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191" bson:"_id"`
	UserID        string    `json:"userId" gorm:"not null;size:191;index:idx_posts_user_timestamp" bson:"user_id"`
	Content       string    `json:"content" gorm:"not null;type:text" bson:"content"`
	Timestamp     time.Time `json:"timestamp" gorm:"index:idx_posts_user_timestamp" bson:"timestamp"`
	LikesCount    int       `json:"likes_count" gorm:"default:0" bson:"likes_count"`
	CommentsCount int       `json:"comments_count" gorm:"default:0" bson:"comments_count"`

	// Computed per viewer, never persisted.
	IsLikedByUser bool `json:"isLikedByUser" gorm:"-" bson:"-"`
}

type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey" bson:"-"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_post_user" bson:"post_id"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_post_user;index" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"liked_at"`
}
