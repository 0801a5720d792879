// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID              string    `json:"id" gorm:"primaryKey;size:191" bson:"_id"`
	Name            string    `json:"name" gorm:"not null;size:255" bson:"name"`
	Username        string    `json:"username" gorm:"uniqueIndex;not null;size:50" bson:"username"`
	Bio             string    `json:"bio" gorm:"size:500" bson:"bio"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"size:500" bson:"profile_image_url"`
	FollowersCount  int       `json:"followers_count" gorm:"default:0" bson:"followers_count"`
	FollowingCount  int       `json:"following_count" gorm:"default:0" bson:"following_count"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`

	// Watchlists are stored separately and only attached on profile reads.
	// Search results never carry them.
	StockLists map[string][]string `json:"stockLists,omitempty" gorm:"-" bson:"-"`
}

// Follow is a directional edge: follower -> followee. A single row carries
// both directions of the relationship, so the two sides can never disagree.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey" bson:"-"`
	FollowerID string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_followee" bson:"follower_id"`
	FolloweeID string    `json:"followee_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_followee;index" bson:"followee_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
