// Package mysql implements storage.Storage on MySQL through GORM.
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stocktalk-api/models"
	"stocktalk-api/storage"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to MySQL and runs migrations.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return New(db), nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
		&models.CommentedPost{},
		&models.StockList{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("id = ? OR username = ?", user.ID, user.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrConflict
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		def := models.DefaultStockList()
		def.UserID = user.ID
		return tx.Create(&def).Error
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	var lists []models.StockList
	if err := s.db.WithContext(ctx).Where("user_id = ?", id).Find(&lists).Error; err != nil {
		return nil, err
	}
	user.StockLists = make(map[string][]string, len(lists))
	for _, l := range lists {
		user.StockLists[l.Name] = l.Tickers
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update storage.UserUpdate) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? AND id <> ?", update.Username, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrConflict
		}

		return tx.Model(&user).Updates(map[string]interface{}{
			"name":     update.Name,
			"username": update.Username,
			"bio":      update.Bio,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *Store) UpdateProfileImage(ctx context.Context, id, imageURL string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("profile_image_url", imageURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		// Own posts first; each takes its comment and like tree with it.
		var postIDs []string
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, postID := range postIDs {
			if err := deletePostTx(tx, postID); err != nil {
				return err
			}
		}

		// Comments the user left on other posts.
		var comments []models.Comment
		if err := tx.Where("user_id = ?", id).Find(&comments).Error; err != nil {
			return err
		}
		for _, c := range comments {
			if err := deleteCommentTx(tx, c.PostID, c.ID, c.UserID); err != nil {
				return err
			}
		}

		// Likes held elsewhere, compensating the counters.
		var likedPostIDs []string
		if err := tx.Model(&models.PostLike{}).Where("user_id = ?", id).Pluck("post_id", &likedPostIDs).Error; err != nil {
			return err
		}
		if len(likedPostIDs) > 0 {
			if err := tx.Model(&models.Post{}).Where("id IN ?", likedPostIDs).
				UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
		}

		var likedCommentIDs []string
		if err := tx.Model(&models.CommentLike{}).Where("user_id = ?", id).Pluck("comment_id", &likedCommentIDs).Error; err != nil {
			return err
		}
		if len(likedCommentIDs) > 0 {
			if err := tx.Model(&models.Comment{}).Where("id IN ?", likedCommentIDs).
				UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
		}

		// Follow edges in both directions.
		var followeeIDs []string
		if err := tx.Model(&models.Follow{}).Where("follower_id = ?", id).Pluck("followee_id", &followeeIDs).Error; err != nil {
			return err
		}
		if len(followeeIDs) > 0 {
			if err := tx.Model(&models.User{}).Where("id IN ?", followeeIDs).
				UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count - 1, 0)")).Error; err != nil {
				return err
			}
		}

		var followerIDs []string
		if err := tx.Model(&models.Follow{}).Where("followee_id = ?", id).Pluck("follower_id", &followerIDs).Error; err != nil {
			return err
		}
		if len(followerIDs) > 0 {
			if err := tx.Model(&models.User{}).Where("id IN ?", followerIDs).
				UpdateColumn("following_count", gorm.Expr("GREATEST(following_count - 1, 0)")).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("follower_id = ? OR followee_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CommentedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.StockList{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *Store) SearchUsers(ctx context.Context, usernamePrefix string, limit int) ([]*models.User, error) {
	var users []*models.User
	err := s.db.WithContext(ctx).
		Where("username LIKE ?", usernamePrefix+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// === Social graph ===

func (s *Store) Follow(ctx context.Context, followerID, followeeID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id IN ?", []string{followerID, followeeID}).Count(&count).Error; err != nil {
			return err
		}
		want := int64(2)
		if followerID == followeeID {
			want = 1
		}
		if count < want {
			return storage.ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return storage.ErrConflict
		}

		if err := tx.Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + ?", 1)).Error
	})
}

func (s *Store) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrConflict
		}

		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("GREATEST(following_count - 1, 0)")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count - 1, 0)")).Error
	})
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*models.User, error) {
	return s.listRelated(ctx, userID, "id IN (SELECT follower_id FROM follows WHERE followee_id = ?)")
}

func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*models.User, error) {
	return s.listRelated(ctx, userID, "id IN (SELECT followee_id FROM follows WHERE follower_id = ?)")
}

func (s *Store) listRelated(ctx context.Context, userID, cond string) ([]*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, storage.ErrNotFound
	}

	var users []*models.User
	err := s.db.WithContext(ctx).Where(cond, userID).Order("username ASC").Find(&users).Error
	return users, err
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", post.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		post.Timestamp = time.Now().UTC()
		post.LikesCount = 1
		post.CommentsCount = 0
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		// The creator likes their own post at creation.
		if err := tx.Create(&models.PostLike{PostID: post.ID, UserID: post.UserID}).Error; err != nil {
			return err
		}
		post.IsLikedByUser = true
		return nil
	})
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}
		return deletePostTx(tx, id)
	})
}

// deletePostTx removes the post and its whole comment/like tree. One like or
// comment row serves both the item-side edge and the user-side reverse
// index, so deleting the rows clears both at once.
func deletePostTx(tx *gorm.DB, postID string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.CommentedPost{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Post{}, "id = ?", postID).Error
}

func (s *Store) ListFeedPosts(ctx context.Context, viewerID string, limit int, startAfter string) ([]*models.Post, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ? OR user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)", viewerID, viewerID)
	return s.listPosts(ctx, q, viewerID, limit, startAfter)
}

func (s *Store) ListUserPosts(ctx context.Context, authorID string, limit int, startAfter string) ([]*models.Post, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", authorID)
	return s.listPosts(ctx, q, authorID, limit, startAfter)
}

func (s *Store) listPosts(ctx context.Context, q *gorm.DB, userID string, limit int, startAfter string) ([]*models.Post, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, storage.ErrNotFound
	}

	if startAfter != "" {
		var cursor models.Post
		if err := s.db.WithContext(ctx).First(&cursor, "id = ?", startAfter).Error; err != nil {
			return nil, notFound(err)
		}
		q = q.Where("(timestamp < ?) OR (timestamp = ? AND id < ?)", cursor.Timestamp, cursor.Timestamp, cursor.ID)
	}

	var posts []*models.Post
	err := q.Order("timestamp DESC, id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (s *Store) LikePost(ctx context.Context, userID, postID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.PostLike{}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return storage.ErrConflict
		}

		if err := tx.Create(&models.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
}

func (s *Store) UnlikePost(ctx context.Context, userID, postID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrConflict
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error
	})
}

func (s *Store) IsPostLiked(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		comment.Timestamp = time.Now().UTC()
		comment.LikesCount = 1
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.CommentLike{
			CommentID: comment.ID,
			PostID:    comment.PostID,
			UserID:    comment.UserID,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error; err != nil {
			return err
		}

		if err := tx.Where(models.CommentedPost{UserID: comment.UserID, PostID: comment.PostID}).
			FirstOrCreate(&models.CommentedPost{UserID: comment.UserID, PostID: comment.PostID}).Error; err != nil {
			return err
		}

		comment.IsLikedByUser = true
		return nil
	})
}

func (s *Store) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ? AND post_id = ?", commentID, postID).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ? AND post_id = ?", commentID, postID).Error; err != nil {
			return notFound(err)
		}
		return deleteCommentTx(tx, postID, commentID, comment.UserID)
	})
}

func deleteCommentTx(tx *gorm.DB, postID, commentID, authorID string) error {
	if err := tx.Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("GREATEST(comments_count - 1, 0)")).Error; err != nil {
		return err
	}

	var remaining int64
	if err := tx.Model(&models.Comment{}).
		Where("post_id = ? AND user_id = ?", postID, authorID).
		Count(&remaining).Error; err != nil {
		return err
	}
	if remaining == 0 {
		return tx.Where("user_id = ? AND post_id = ?", authorID, postID).Delete(&models.CommentedPost{}).Error
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID string, limit int, startAfter string) ([]*models.Comment, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, storage.ErrNotFound
	}

	q := s.db.WithContext(ctx).Where("post_id = ?", postID)
	if startAfter != "" {
		var cursor models.Comment
		if err := s.db.WithContext(ctx).First(&cursor, "id = ? AND post_id = ?", startAfter, postID).Error; err != nil {
			return nil, notFound(err)
		}
		q = q.Where("(timestamp < ?) OR (timestamp = ? AND id < ?)", cursor.Timestamp, cursor.Timestamp, cursor.ID)
	}

	var comments []*models.Comment
	err := q.Order("timestamp DESC, id DESC").Limit(limit).Find(&comments).Error
	return comments, err
}

func (s *Store) LikeComment(ctx context.Context, userID, postID, commentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Comment{}).Where("id = ? AND post_id = ?", commentID, postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.CommentLike{}).
			Where("comment_id = ? AND user_id = ?", commentID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return storage.ErrConflict
		}

		if err := tx.Create(&models.CommentLike{CommentID: commentID, PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
}

func (s *Store) UnlikeComment(ctx context.Context, userID, postID, commentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Comment{}).Where("id = ? AND post_id = ?", commentID, postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrConflict
		}

		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error
	})
}

func (s *Store) IsCommentLiked(ctx context.Context, userID, postID, commentID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ? AND post_id = ? AND user_id = ?", commentID, postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) HasCommentedPost(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CommentedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// === Stock lists ===

func (s *Store) CreateStockList(ctx context.Context, userID string, list *models.StockList) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.StockList{}).
			Where("user_id = ? AND name = ?", userID, list.Name).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return storage.ErrConflict
		}

		list.UserID = userID
		return tx.Create(list).Error
	})
}

func (s *Store) UpdateStockList(ctx context.Context, userID, name, newName string, tickers []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list models.StockList
		if err := tx.First(&list, "user_id = ? AND name = ?", userID, name).Error; err != nil {
			return notFound(err)
		}

		if newName != name {
			var existing int64
			if err := tx.Model(&models.StockList{}).
				Where("user_id = ? AND name = ?", userID, newName).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return storage.ErrConflict
			}
		}

		return tx.Model(&list).Updates(map[string]interface{}{
			"name":    newName,
			"tickers": models.StringSlice(tickers),
		}).Error
	})
}

func (s *Store) DeleteStockList(ctx context.Context, userID, name string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Delete(&models.StockList{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListStockLists(ctx context.Context, userID string) ([]*models.StockList, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, storage.ErrNotFound
	}

	var lists []*models.StockList
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&lists).Error
	return lists, err
}
