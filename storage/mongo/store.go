// Package mongo implements storage.Storage on MongoDB, the rendition
// closest to the document/subcollection layout the data originally lived in.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stocktalk-api/models"
	"stocktalk-api/storage"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// Open connects to MongoDB and ensures the unique edge indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		"follows": {
			{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "followee_id", Value: 1}}},
		},
		"posts": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		"post_likes": {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"comment_likes": {
			{Keys: bson.D{{Key: "comment_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "post_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"commented_posts": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "post_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "post_id", Value: 1}}},
		},
		"stock_lists": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs f inside a session transaction so multi-document mutations
// commit or abort as one unit.
func (s *Store) withTx(ctx context.Context, f func(ctx mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, f(sc)
	})
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}

// flooredDecrement is an aggregation-pipeline update that never drives the
// counter below zero.
func flooredDecrement(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$" + field, 1}}}},
		}}},
	}
}

func (s *Store) exists(ctx context.Context, coll string, filter bson.M) (bool, error) {
	count, err := s.db.Collection(coll).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return count > 0, err
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		taken, err := s.exists(sc, "users", bson.M{"$or": bson.A{
			bson.M{"_id": user.ID},
			bson.M{"username": user.Username},
		}})
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrConflict
		}

		now := time.Now().UTC()
		user.CreatedAt = now
		user.UpdatedAt = now
		if _, err := s.db.Collection("users").InsertOne(sc, user); err != nil {
			return err
		}

		def := models.DefaultStockList()
		def.UserID = user.ID
		def.CreatedAt = now
		def.UpdatedAt = now
		_, err = s.db.Collection("stock_lists").InsertOne(sc, def)
		return err
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFound(err)
	}

	lists, err := s.ListStockLists(ctx, id)
	if err != nil {
		return nil, err
	}
	user.StockLists = make(map[string][]string, len(lists))
	for _, l := range lists {
		user.StockLists[l.Name] = l.Tickers
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update storage.UserUpdate) (*models.User, error) {
	err := s.withTx(ctx, func(sc mongo.SessionContext) error {
		taken, err := s.exists(sc, "users", bson.M{"username": update.Username, "_id": bson.M{"$ne": id}})
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrConflict
		}

		res, err := s.db.Collection("users").UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": bson.M{
			"name":       update.Name,
			"username":   update.Username,
			"bio":        update.Bio,
			"updated_at": time.Now().UTC(),
		}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *Store) UpdateProfileImage(ctx context.Context, id, imageURL string) error {
	res, err := s.db.Collection("users").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"profile_image_url": imageURL,
		"updated_at":        time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "users", bson.M{"_id": id})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		// Own posts and their trees.
		postIDs, err := s.pluckStrings(sc, "posts", bson.M{"user_id": id}, "_id")
		if err != nil {
			return err
		}
		for _, postID := range postIDs {
			if err := s.deletePostTx(sc, postID); err != nil {
				return err
			}
		}

		// Comments left on other users' posts.
		cur, err := s.db.Collection("comments").Find(sc, bson.M{"user_id": id})
		if err != nil {
			return err
		}
		var comments []models.Comment
		if err := cur.All(sc, &comments); err != nil {
			return err
		}
		for _, c := range comments {
			if err := s.deleteCommentTx(sc, c.PostID, c.ID, c.UserID); err != nil {
				return err
			}
		}

		// Likes held elsewhere, with counter compensation.
		likedPosts, err := s.pluckStrings(sc, "post_likes", bson.M{"user_id": id}, "post_id")
		if err != nil {
			return err
		}
		if len(likedPosts) > 0 {
			if _, err := s.db.Collection("posts").UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": likedPosts}}, flooredDecrement("likes_count")); err != nil {
				return err
			}
			if _, err := s.db.Collection("post_likes").DeleteMany(sc, bson.M{"user_id": id}); err != nil {
				return err
			}
		}

		likedComments, err := s.pluckStrings(sc, "comment_likes", bson.M{"user_id": id}, "comment_id")
		if err != nil {
			return err
		}
		if len(likedComments) > 0 {
			if _, err := s.db.Collection("comments").UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": likedComments}}, flooredDecrement("likes_count")); err != nil {
				return err
			}
			if _, err := s.db.Collection("comment_likes").DeleteMany(sc, bson.M{"user_id": id}); err != nil {
				return err
			}
		}

		// Follow edges in both directions.
		followees, err := s.pluckStrings(sc, "follows", bson.M{"follower_id": id}, "followee_id")
		if err != nil {
			return err
		}
		if len(followees) > 0 {
			if _, err := s.db.Collection("users").UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": followees}}, flooredDecrement("followers_count")); err != nil {
				return err
			}
		}

		followers, err := s.pluckStrings(sc, "follows", bson.M{"followee_id": id}, "follower_id")
		if err != nil {
			return err
		}
		if len(followers) > 0 {
			if _, err := s.db.Collection("users").UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": followers}}, flooredDecrement("following_count")); err != nil {
				return err
			}
		}

		if _, err := s.db.Collection("follows").DeleteMany(sc, bson.M{"$or": bson.A{
			bson.M{"follower_id": id},
			bson.M{"followee_id": id},
		}}); err != nil {
			return err
		}
		if _, err := s.db.Collection("commented_posts").DeleteMany(sc, bson.M{"user_id": id}); err != nil {
			return err
		}
		if _, err := s.db.Collection("stock_lists").DeleteMany(sc, bson.M{"user_id": id}); err != nil {
			return err
		}
		_, err = s.db.Collection("users").DeleteOne(sc, bson.M{"_id": id})
		return err
	})
}

func (s *Store) pluckStrings(ctx context.Context, coll string, filter bson.M, field string) ([]string, error) {
	cur, err := s.db.Collection(coll).Find(ctx, filter,
		options.Find().SetProjection(bson.M{field: 1}))
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		if v, ok := doc[field].(string); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "users", bson.M{"username": username})
}

func (s *Store) SearchUsers(ctx context.Context, usernamePrefix string, limit int) ([]*models.User, error) {
	// Prefix range scan: username >= prefix and < prefix + maximal sentinel.
	filter := bson.M{"username": bson.M{
		"$gte": usernamePrefix,
		"$lt":  usernamePrefix + "\uffff",
	}}
	cur, err := s.db.Collection("users").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "username", Value: 1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// === Social graph ===

func (s *Store) Follow(ctx context.Context, followerID, followeeID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		for _, id := range []string{followerID, followeeID} {
			ok, err := s.exists(sc, "users", bson.M{"_id": id})
			if err != nil {
				return err
			}
			if !ok {
				return storage.ErrNotFound
			}
		}

		exists, err := s.exists(sc, "follows", bson.M{"follower_id": followerID, "followee_id": followeeID})
		if err != nil {
			return err
		}
		if exists {
			return storage.ErrConflict
		}

		if _, err := s.db.Collection("follows").InsertOne(sc, models.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}
		if _, err := s.db.Collection("users").UpdateOne(sc,
			bson.M{"_id": followerID}, bson.M{"$inc": bson.M{"following_count": 1}}); err != nil {
			return err
		}
		_, err = s.db.Collection("users").UpdateOne(sc,
			bson.M{"_id": followeeID}, bson.M{"$inc": bson.M{"followers_count": 1}})
		return err
	})
}

func (s *Store) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		res, err := s.db.Collection("follows").DeleteOne(sc,
			bson.M{"follower_id": followerID, "followee_id": followeeID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return storage.ErrConflict
		}

		if _, err := s.db.Collection("users").UpdateOne(sc,
			bson.M{"_id": followerID}, flooredDecrement("following_count")); err != nil {
			return err
		}
		_, err = s.db.Collection("users").UpdateOne(sc,
			bson.M{"_id": followeeID}, flooredDecrement("followers_count"))
		return err
	})
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.exists(ctx, "follows", bson.M{"follower_id": followerID, "followee_id": followeeID})
}

func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*models.User, error) {
	ids, err := s.relatedIDs(ctx, userID, bson.M{"followee_id": userID}, "follower_id")
	if err != nil {
		return nil, err
	}
	return s.usersByIDs(ctx, ids)
}

func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*models.User, error) {
	ids, err := s.relatedIDs(ctx, userID, bson.M{"follower_id": userID}, "followee_id")
	if err != nil {
		return nil, err
	}
	return s.usersByIDs(ctx, ids)
}

func (s *Store) relatedIDs(ctx context.Context, userID string, filter bson.M, field string) ([]string, error) {
	ok, err := s.exists(ctx, "users", bson.M{"_id": userID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.pluckStrings(ctx, "follows", filter, field)
}

func (s *Store) usersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	cur, err := s.db.Collection("users").Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "users", bson.M{"_id": post.UserID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		post.Timestamp = time.Now().UTC()
		post.LikesCount = 1
		post.CommentsCount = 0
		if _, err := s.db.Collection("posts").InsertOne(sc, post); err != nil {
			return err
		}

		// The creator likes their own post at creation.
		if _, err := s.db.Collection("post_likes").InsertOne(sc, models.PostLike{
			PostID:    post.ID,
			UserID:    post.UserID,
			CreatedAt: post.Timestamp,
		}); err != nil {
			return err
		}
		post.IsLikedByUser = true
		return nil
	})
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Collection("posts").FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "posts", bson.M{"_id": id})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}
		return s.deletePostTx(sc, id)
	})
}

func (s *Store) deletePostTx(ctx context.Context, postID string) error {
	for _, coll := range []string{"comment_likes", "commented_posts", "comments", "post_likes"} {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
			return err
		}
	}
	_, err := s.db.Collection("posts").DeleteOne(ctx, bson.M{"_id": postID})
	return err
}

func (s *Store) ListFeedPosts(ctx context.Context, viewerID string, limit int, startAfter string) ([]*models.Post, error) {
	followees, err := s.relatedIDs(ctx, viewerID, bson.M{"follower_id": viewerID}, "followee_id")
	if err != nil {
		return nil, err
	}
	authors := append(followees, viewerID)
	return s.listPosts(ctx, bson.M{"user_id": bson.M{"$in": authors}}, limit, startAfter)
}

func (s *Store) ListUserPosts(ctx context.Context, authorID string, limit int, startAfter string) ([]*models.Post, error) {
	ok, err := s.exists(ctx, "users", bson.M{"_id": authorID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.listPosts(ctx, bson.M{"user_id": authorID}, limit, startAfter)
}

func (s *Store) listPosts(ctx context.Context, filter bson.M, limit int, startAfter string) ([]*models.Post, error) {
	query := bson.M{"$and": bson.A{filter}}
	if startAfter != "" {
		cursor, err := s.GetPost(ctx, startAfter)
		if err != nil {
			return nil, err
		}
		query["$and"] = append(query["$and"].(bson.A), bson.M{"$or": bson.A{
			bson.M{"timestamp": bson.M{"$lt": cursor.Timestamp}},
			bson.M{"timestamp": cursor.Timestamp, "_id": bson.M{"$lt": cursor.ID}},
		}})
	}

	cur, err := s.db.Collection("posts").Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var posts []*models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) LikePost(ctx context.Context, userID, postID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "posts", bson.M{"_id": postID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		liked, err := s.exists(sc, "post_likes", bson.M{"post_id": postID, "user_id": userID})
		if err != nil {
			return err
		}
		if liked {
			return storage.ErrConflict
		}

		if _, err := s.db.Collection("post_likes").InsertOne(sc, models.PostLike{
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		_, err = s.db.Collection("posts").UpdateOne(sc,
			bson.M{"_id": postID}, bson.M{"$inc": bson.M{"likes_count": 1}})
		return err
	})
}

func (s *Store) UnlikePost(ctx context.Context, userID, postID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "posts", bson.M{"_id": postID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		res, err := s.db.Collection("post_likes").DeleteOne(sc, bson.M{"post_id": postID, "user_id": userID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return storage.ErrConflict
		}

		_, err = s.db.Collection("posts").UpdateOne(sc, bson.M{"_id": postID}, flooredDecrement("likes_count"))
		return err
	})
}

func (s *Store) IsPostLiked(ctx context.Context, userID, postID string) (bool, error) {
	return s.exists(ctx, "post_likes", bson.M{"post_id": postID, "user_id": userID})
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "posts", bson.M{"_id": comment.PostID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		comment.Timestamp = time.Now().UTC()
		comment.LikesCount = 1
		if _, err := s.db.Collection("comments").InsertOne(sc, comment); err != nil {
			return err
		}

		if _, err := s.db.Collection("comment_likes").InsertOne(sc, models.CommentLike{
			CommentID: comment.ID,
			PostID:    comment.PostID,
			UserID:    comment.UserID,
			CreatedAt: comment.Timestamp,
		}); err != nil {
			return err
		}

		if _, err := s.db.Collection("posts").UpdateOne(sc,
			bson.M{"_id": comment.PostID}, bson.M{"$inc": bson.M{"comments_count": 1}}); err != nil {
			return err
		}

		if _, err := s.db.Collection("commented_posts").UpdateOne(sc,
			bson.M{"user_id": comment.UserID, "post_id": comment.PostID},
			bson.M{"$setOnInsert": bson.M{"commented_at": comment.Timestamp}},
			options.Update().SetUpsert(true)); err != nil {
			return err
		}

		comment.IsLikedByUser = true
		return nil
	})
}

func (s *Store) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Collection("comments").FindOne(ctx, bson.M{"_id": commentID, "post_id": postID}).Decode(&comment)
	if err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		comment, err := s.GetComment(sc, postID, commentID)
		if err != nil {
			return err
		}
		return s.deleteCommentTx(sc, postID, commentID, comment.UserID)
	})
}

func (s *Store) deleteCommentTx(ctx context.Context, postID, commentID, authorID string) error {
	if _, err := s.db.Collection("comment_likes").DeleteMany(ctx, bson.M{"comment_id": commentID}); err != nil {
		return err
	}
	if _, err := s.db.Collection("comments").DeleteOne(ctx, bson.M{"_id": commentID}); err != nil {
		return err
	}
	if _, err := s.db.Collection("posts").UpdateOne(ctx,
		bson.M{"_id": postID}, flooredDecrement("comments_count")); err != nil {
		return err
	}

	remaining, err := s.exists(ctx, "comments", bson.M{"post_id": postID, "user_id": authorID})
	if err != nil {
		return err
	}
	if !remaining {
		_, err = s.db.Collection("commented_posts").DeleteOne(ctx,
			bson.M{"user_id": authorID, "post_id": postID})
	}
	return err
}

func (s *Store) ListComments(ctx context.Context, postID string, limit int, startAfter string) ([]*models.Comment, error) {
	ok, err := s.exists(ctx, "posts", bson.M{"_id": postID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, storage.ErrNotFound
	}

	query := bson.M{"$and": bson.A{bson.M{"post_id": postID}}}
	if startAfter != "" {
		cursor, err := s.GetComment(ctx, postID, startAfter)
		if err != nil {
			return nil, err
		}
		query["$and"] = append(query["$and"].(bson.A), bson.M{"$or": bson.A{
			bson.M{"timestamp": bson.M{"$lt": cursor.Timestamp}},
			bson.M{"timestamp": cursor.Timestamp, "_id": bson.M{"$lt": cursor.ID}},
		}})
	}

	cur, err := s.db.Collection("comments").Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var comments []*models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) LikeComment(ctx context.Context, userID, postID, commentID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "comments", bson.M{"_id": commentID, "post_id": postID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		liked, err := s.exists(sc, "comment_likes", bson.M{"comment_id": commentID, "user_id": userID})
		if err != nil {
			return err
		}
		if liked {
			return storage.ErrConflict
		}

		if _, err := s.db.Collection("comment_likes").InsertOne(sc, models.CommentLike{
			CommentID: commentID,
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		_, err = s.db.Collection("comments").UpdateOne(sc,
			bson.M{"_id": commentID}, bson.M{"$inc": bson.M{"likes_count": 1}})
		return err
	})
}

func (s *Store) UnlikeComment(ctx context.Context, userID, postID, commentID string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "comments", bson.M{"_id": commentID, "post_id": postID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		res, err := s.db.Collection("comment_likes").DeleteOne(sc,
			bson.M{"comment_id": commentID, "user_id": userID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return storage.ErrConflict
		}

		_, err = s.db.Collection("comments").UpdateOne(sc,
			bson.M{"_id": commentID}, flooredDecrement("likes_count"))
		return err
	})
}

func (s *Store) IsCommentLiked(ctx context.Context, userID, postID, commentID string) (bool, error) {
	return s.exists(ctx, "comment_likes",
		bson.M{"comment_id": commentID, "post_id": postID, "user_id": userID})
}

func (s *Store) HasCommentedPost(ctx context.Context, userID, postID string) (bool, error) {
	return s.exists(ctx, "commented_posts", bson.M{"user_id": userID, "post_id": postID})
}

// === Stock lists ===

func (s *Store) CreateStockList(ctx context.Context, userID string, list *models.StockList) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		ok, err := s.exists(sc, "users", bson.M{"_id": userID})
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		taken, err := s.exists(sc, "stock_lists", bson.M{"user_id": userID, "name": list.Name})
		if err != nil {
			return err
		}
		if taken {
			return storage.ErrConflict
		}

		now := time.Now().UTC()
		list.UserID = userID
		list.CreatedAt = now
		list.UpdatedAt = now
		_, err = s.db.Collection("stock_lists").InsertOne(sc, list)
		return err
	})
}

func (s *Store) UpdateStockList(ctx context.Context, userID, name, newName string, tickers []string) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		if newName != name {
			taken, err := s.exists(sc, "stock_lists", bson.M{"user_id": userID, "name": newName})
			if err != nil {
				return err
			}
			if taken {
				return storage.ErrConflict
			}
		}

		res, err := s.db.Collection("stock_lists").UpdateOne(sc,
			bson.M{"user_id": userID, "name": name},
			bson.M{"$set": bson.M{
				"name":       newName,
				"tickers":    tickers,
				"updated_at": time.Now().UTC(),
			}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

func (s *Store) DeleteStockList(ctx context.Context, userID, name string) error {
	res, err := s.db.Collection("stock_lists").DeleteOne(ctx, bson.M{"user_id": userID, "name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListStockLists(ctx context.Context, userID string) ([]*models.StockList, error) {
	cur, err := s.db.Collection("stock_lists").Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var lists []*models.StockList
	if err := cur.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}
