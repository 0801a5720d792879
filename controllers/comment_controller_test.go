package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktalk-api/models"
	"stocktalk-api/storage/memory"
)

func createTestComment(t *testing.T, r *gin.Engine, token, postID, content string) models.Comment {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/comments/create", token, gin.H{
		"postId":  postID,
		"content": content,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))
	return comment
}

func TestCreateComment(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	aliceToken := createTestUser(t, r, "u1", "alice")
	bobToken := createTestUser(t, r, "u2", "bob")

	post := createTestPost(t, r, aliceToken, "discuss")

	comment := createTestComment(t, r, bobToken, post.ID, "first!")
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "u2", comment.UserID)
	assert.Equal(t, 1, comment.LikesCount)
	assert.True(t, comment.IsLikedByUser)

	w := doRequest(t, r, http.MethodPost, "/comments/create", bobToken, gin.H{
		"postId":  "ghost",
		"content": "into the void",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodPost, "/comments/create", bobToken, gin.H{"postId": post.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFetchComments(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	aliceToken := createTestUser(t, r, "u1", "alice")
	bobToken := createTestUser(t, r, "u2", "bob")

	post := createTestPost(t, r, aliceToken, "discuss")
	own := createTestComment(t, r, bobToken, post.ID, "bob here")
	createTestComment(t, r, aliceToken, post.ID, "alice here")

	w := doRequest(t, r, http.MethodGet, "/comments/fetch?post_id="+post.ID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	require.Len(t, comments, 2)

	for _, c := range comments {
		if c.ID == own.ID {
			assert.True(t, c.IsLikedByUser)
		} else {
			assert.False(t, c.IsLikedByUser)
		}
	}

	w = doRequest(t, r, http.MethodGet, "/comments/fetch", bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/comments/fetch?post_id=ghost", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeUnlikeComment(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	aliceToken := createTestUser(t, r, "u1", "alice")
	bobToken := createTestUser(t, r, "u2", "bob")

	post := createTestPost(t, r, aliceToken, "discuss")
	comment := createTestComment(t, r, aliceToken, post.ID, "mine")

	base := "/comments/like/" + post.ID + "/" + comment.ID
	w := doRequest(t, r, http.MethodPost, base, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, base, bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	unlike := "/comments/unlike/" + post.ID + "/" + comment.ID
	w = doRequest(t, r, http.MethodPost, unlike, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, unlike, bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, r, http.MethodPost, "/comments/like/"+post.ID+"/ghost", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCommentOwnership(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	aliceToken := createTestUser(t, r, "u1", "alice")
	bobToken := createTestUser(t, r, "u2", "bob")

	post := createTestPost(t, r, aliceToken, "discuss")
	comment := createTestComment(t, r, bobToken, post.ID, "bob's comment")

	path := "/comments/delete/" + post.ID + "/" + comment.ID
	w := doRequest(t, r, http.MethodDelete, path, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, "/comments/fetch?post_id="+post.ID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Empty(t, comments)
}
