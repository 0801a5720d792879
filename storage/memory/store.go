// Package memory implements storage.Storage with mutex-guarded maps.
// Both directions of every edge are held in mirrored indexes, updated under
// one lock, so the symmetry invariants can be checked directly.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stocktalk-api/models"
	"stocktalk-api/storage"
)

type Store struct {
	mu sync.RWMutex

	users map[string]*models.User

	// follower -> set of followees, and the mirror.
	following map[string]map[string]bool
	followers map[string]map[string]bool

	posts    map[string]*models.Post
	comments map[string]*models.Comment

	// postID -> set of likers, and userID -> set of liked posts.
	likesByPost      map[string]map[string]bool
	likedPostsByUser map[string]map[string]bool

	likesByComment      map[string]map[string]bool
	likedCommentsByUser map[string]map[string]bool

	// userID -> set of posts the user has commented on.
	commentedPosts map[string]map[string]bool

	// userID -> list name -> tickers.
	stockLists map[string]map[string][]string
}

func New() *Store {
	return &Store{
		users:               make(map[string]*models.User),
		following:           make(map[string]map[string]bool),
		followers:           make(map[string]map[string]bool),
		posts:               make(map[string]*models.Post),
		comments:            make(map[string]*models.Comment),
		likesByPost:         make(map[string]map[string]bool),
		likedPostsByUser:    make(map[string]map[string]bool),
		likesByComment:      make(map[string]map[string]bool),
		likedCommentsByUser: make(map[string]map[string]bool),
		commentedPosts:      make(map[string]map[string]bool),
		stockLists:          make(map[string]map[string][]string),
	}
}

func addEdge(m map[string]map[string]bool, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(map[string]bool)
		m[from] = set
	}
	set[to] = true
}

func removeEdge(m map[string]map[string]bool, from, to string) {
	if set, ok := m[from]; ok {
		delete(set, to)
		if len(set) == 0 {
			delete(m, from)
		}
	}
}

func hasEdge(m map[string]map[string]bool, from, to string) bool {
	return m[from][to]
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return storage.ErrConflict
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return storage.ErrConflict
		}
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	stored.StockLists = nil
	s.users[user.ID] = &stored

	def := models.DefaultStockList()
	s.stockLists[user.ID] = map[string][]string{def.Name: def.Tickers}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUserLocked(id)
}

func (s *Store) getUserLocked(id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := *user
	if lists, ok := s.stockLists[id]; ok {
		out.StockLists = make(map[string][]string, len(lists))
		for name, tickers := range lists {
			out.StockLists[name] = append([]string(nil), tickers...)
		}
	}
	return &out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, update storage.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for _, u := range s.users {
		if u.ID != id && u.Username == update.Username {
			return nil, storage.ErrConflict
		}
	}

	user.Name = update.Name
	user.Username = update.Username
	user.Bio = update.Bio
	user.UpdatedAt = time.Now().UTC()
	return s.getUserLocked(id)
}

func (s *Store) UpdateProfileImage(ctx context.Context, id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.ProfileImageURL = imageURL
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}

	// The user's own posts go first; that also clears every comment and
	// like edge hanging off them, including the user's own.
	for postID, post := range s.posts {
		if post.UserID == id {
			s.deletePostLocked(postID)
		}
	}

	// Remaining comments are on other users' posts.
	for commentID, comment := range s.comments {
		if comment.UserID == id {
			s.deleteCommentLocked(commentID)
		}
	}

	// Likes the user holds elsewhere, with counter compensation.
	for postID := range s.likedPostsByUser[id] {
		removeEdge(s.likesByPost, postID, id)
		if post, ok := s.posts[postID]; ok && post.LikesCount > 0 {
			post.LikesCount--
		}
	}
	delete(s.likedPostsByUser, id)

	for commentID := range s.likedCommentsByUser[id] {
		removeEdge(s.likesByComment, commentID, id)
		if comment, ok := s.comments[commentID]; ok && comment.LikesCount > 0 {
			comment.LikesCount--
		}
	}
	delete(s.likedCommentsByUser, id)

	// Follow edges in both directions.
	for followee := range s.following[id] {
		removeEdge(s.followers, followee, id)
		if u, ok := s.users[followee]; ok && u.FollowersCount > 0 {
			u.FollowersCount--
		}
	}
	delete(s.following, id)

	for follower := range s.followers[id] {
		removeEdge(s.following, follower, id)
		if u, ok := s.users[follower]; ok && u.FollowingCount > 0 {
			u.FollowingCount--
		}
	}
	delete(s.followers, id)

	delete(s.commentedPosts, id)
	delete(s.stockLists, id)
	delete(s.users, id)
	return nil
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SearchUsers(ctx context.Context, usernamePrefix string, limit int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*models.User, 0)
	for _, u := range s.users {
		if strings.HasPrefix(u.Username, usernamePrefix) {
			out := *u
			matches = append(matches, &out)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Username < matches[j].Username
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// === Social graph ===

func (s *Store) Follow(ctx context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	follower, ok := s.users[followerID]
	if !ok {
		return storage.ErrNotFound
	}
	followee, ok := s.users[followeeID]
	if !ok {
		return storage.ErrNotFound
	}
	if hasEdge(s.following, followerID, followeeID) {
		return storage.ErrConflict
	}

	addEdge(s.following, followerID, followeeID)
	addEdge(s.followers, followeeID, followerID)
	follower.FollowingCount++
	followee.FollowersCount++
	return nil
}

func (s *Store) Unfollow(ctx context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	follower, ok := s.users[followerID]
	if !ok {
		return storage.ErrNotFound
	}
	followee, ok := s.users[followeeID]
	if !ok {
		return storage.ErrNotFound
	}
	if !hasEdge(s.following, followerID, followeeID) {
		return storage.ErrConflict
	}

	removeEdge(s.following, followerID, followeeID)
	removeEdge(s.followers, followeeID, followerID)
	if follower.FollowingCount > 0 {
		follower.FollowingCount--
	}
	if followee.FollowersCount > 0 {
		followee.FollowersCount--
	}
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hasEdge(s.following, followerID, followeeID), nil
}

func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectUsersLocked(userID, s.followers)
}

func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectUsersLocked(userID, s.following)
}

func (s *Store) collectUsersLocked(userID string, edges map[string]map[string]bool) ([]*models.User, error) {
	if _, ok := s.users[userID]; !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]*models.User, 0, len(edges[userID]))
	for id := range edges[userID] {
		if u, ok := s.users[id]; ok {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.UserID]; !ok {
		return storage.ErrNotFound
	}

	post.Timestamp = time.Now().UTC()
	post.LikesCount = 1
	post.CommentsCount = 0

	stored := *post
	stored.IsLikedByUser = false
	s.posts[post.ID] = &stored

	// The creator likes their own post at creation.
	addEdge(s.likesByPost, post.ID, post.UserID)
	addEdge(s.likedPostsByUser, post.UserID, post.ID)

	post.IsLikedByUser = true
	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *post
	return &out, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	s.deletePostLocked(id)
	return nil
}

func (s *Store) deletePostLocked(id string) {
	for commentID, comment := range s.comments {
		if comment.PostID != id {
			continue
		}
		for userID := range s.likesByComment[commentID] {
			removeEdge(s.likedCommentsByUser, userID, commentID)
		}
		delete(s.likesByComment, commentID)
		removeEdge(s.commentedPosts, comment.UserID, id)
		delete(s.comments, commentID)
	}

	for userID := range s.likesByPost[id] {
		removeEdge(s.likedPostsByUser, userID, id)
	}
	delete(s.likesByPost, id)
	delete(s.posts, id)
}

func (s *Store) ListFeedPosts(ctx context.Context, viewerID string, limit int, startAfter string) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[viewerID]; !ok {
		return nil, storage.ErrNotFound
	}

	authors := map[string]bool{viewerID: true}
	for id := range s.following[viewerID] {
		authors[id] = true
	}
	return s.listPostsLocked(func(p *models.Post) bool { return authors[p.UserID] }, limit, startAfter)
}

func (s *Store) ListUserPosts(ctx context.Context, authorID string, limit int, startAfter string) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[authorID]; !ok {
		return nil, storage.ErrNotFound
	}
	return s.listPostsLocked(func(p *models.Post) bool { return p.UserID == authorID }, limit, startAfter)
}

func (s *Store) listPostsLocked(match func(*models.Post) bool, limit int, startAfter string) ([]*models.Post, error) {
	all := make([]*models.Post, 0)
	for _, p := range s.posts {
		if match(p) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})

	start := 0
	if startAfter != "" {
		if _, ok := s.posts[startAfter]; !ok {
			return nil, storage.ErrNotFound
		}
		start = len(all)
		for i, p := range all {
			if p.ID == startAfter {
				start = i + 1
				break
			}
		}
	}

	out := make([]*models.Post, 0, limit)
	for i := start; i < len(all) && len(out) < limit; i++ {
		copied := *all[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (s *Store) LikePost(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return storage.ErrNotFound
	}
	if hasEdge(s.likesByPost, postID, userID) {
		return storage.ErrConflict
	}

	addEdge(s.likesByPost, postID, userID)
	addEdge(s.likedPostsByUser, userID, postID)
	post.LikesCount++
	return nil
}

func (s *Store) UnlikePost(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return storage.ErrNotFound
	}
	if !hasEdge(s.likesByPost, postID, userID) {
		return storage.ErrConflict
	}

	removeEdge(s.likesByPost, postID, userID)
	removeEdge(s.likedPostsByUser, userID, postID)
	if post.LikesCount > 0 {
		post.LikesCount--
	}
	return nil
}

func (s *Store) IsPostLiked(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hasEdge(s.likesByPost, postID, userID), nil
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[comment.PostID]
	if !ok {
		return storage.ErrNotFound
	}

	comment.Timestamp = time.Now().UTC()
	comment.LikesCount = 1

	stored := *comment
	stored.IsLikedByUser = false
	s.comments[comment.ID] = &stored

	addEdge(s.likesByComment, comment.ID, comment.UserID)
	addEdge(s.likedCommentsByUser, comment.UserID, comment.ID)
	addEdge(s.commentedPosts, comment.UserID, comment.PostID)
	post.CommentsCount++

	comment.IsLikedByUser = true
	return nil
}

func (s *Store) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getCommentLocked(postID, commentID)
}

func (s *Store) getCommentLocked(postID, commentID string) (*models.Comment, error) {
	comment, ok := s.comments[commentID]
	if !ok || comment.PostID != postID {
		return nil, storage.ErrNotFound
	}
	out := *comment
	return &out, nil
}

func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok || comment.PostID != postID {
		return storage.ErrNotFound
	}
	s.deleteCommentLocked(commentID)
	return nil
}

func (s *Store) deleteCommentLocked(commentID string) {
	comment := s.comments[commentID]

	for userID := range s.likesByComment[commentID] {
		removeEdge(s.likedCommentsByUser, userID, commentID)
	}
	delete(s.likesByComment, commentID)
	delete(s.comments, commentID)

	if post, ok := s.posts[comment.PostID]; ok && post.CommentsCount > 0 {
		post.CommentsCount--
	}

	// Drop the commentedPosts entry only with the author's last comment
	// on this post.
	for _, other := range s.comments {
		if other.PostID == comment.PostID && other.UserID == comment.UserID {
			return
		}
	}
	removeEdge(s.commentedPosts, comment.UserID, comment.PostID)
}

func (s *Store) ListComments(ctx context.Context, postID string, limit int, startAfter string) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, storage.ErrNotFound
	}

	all := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})

	start := 0
	if startAfter != "" {
		if c, ok := s.comments[startAfter]; !ok || c.PostID != postID {
			return nil, storage.ErrNotFound
		}
		start = len(all)
		for i, c := range all {
			if c.ID == startAfter {
				start = i + 1
				break
			}
		}
	}

	out := make([]*models.Comment, 0, limit)
	for i := start; i < len(all) && len(out) < limit; i++ {
		copied := *all[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (s *Store) LikeComment(ctx context.Context, userID, postID, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok || comment.PostID != postID {
		return storage.ErrNotFound
	}
	if hasEdge(s.likesByComment, commentID, userID) {
		return storage.ErrConflict
	}

	addEdge(s.likesByComment, commentID, userID)
	addEdge(s.likedCommentsByUser, userID, commentID)
	comment.LikesCount++
	return nil
}

func (s *Store) UnlikeComment(ctx context.Context, userID, postID, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok || comment.PostID != postID {
		return storage.ErrNotFound
	}
	if !hasEdge(s.likesByComment, commentID, userID) {
		return storage.ErrConflict
	}

	removeEdge(s.likesByComment, commentID, userID)
	removeEdge(s.likedCommentsByUser, userID, commentID)
	if comment.LikesCount > 0 {
		comment.LikesCount--
	}
	return nil
}

func (s *Store) IsCommentLiked(ctx context.Context, userID, postID, commentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if comment, ok := s.comments[commentID]; !ok || comment.PostID != postID {
		return false, nil
	}
	return hasEdge(s.likesByComment, commentID, userID), nil
}

func (s *Store) HasCommentedPost(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hasEdge(s.commentedPosts, userID, postID), nil
}

// === Stock lists ===

func (s *Store) CreateStockList(ctx context.Context, userID string, list *models.StockList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return storage.ErrNotFound
	}
	lists, ok := s.stockLists[userID]
	if !ok {
		lists = make(map[string][]string)
		s.stockLists[userID] = lists
	}
	if _, ok := lists[list.Name]; ok {
		return storage.ErrConflict
	}
	lists[list.Name] = append([]string(nil), list.Tickers...)
	return nil
}

func (s *Store) UpdateStockList(ctx context.Context, userID, name, newName string, tickers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := s.stockLists[userID]
	if _, ok := lists[name]; !ok {
		return storage.ErrNotFound
	}
	if newName != name {
		if _, ok := lists[newName]; ok {
			return storage.ErrConflict
		}
		delete(lists, name)
	}
	lists[newName] = append([]string(nil), tickers...)
	return nil
}

func (s *Store) DeleteStockList(ctx context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := s.stockLists[userID]
	if _, ok := lists[name]; !ok {
		return storage.ErrNotFound
	}
	delete(lists, name)
	return nil
}

func (s *Store) ListStockLists(ctx context.Context, userID string) ([]*models.StockList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]*models.StockList, 0, len(s.stockLists[userID]))
	for name, tickers := range s.stockLists[userID] {
		out = append(out, &models.StockList{
			UserID:  userID,
			Name:    name,
			Tickers: append(models.StringSlice(nil), tickers...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
