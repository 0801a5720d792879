package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktalk-api/config"
	"stocktalk-api/models"
	"stocktalk-api/routes"
	"stocktalk-api/services"
	"stocktalk-api/storage/memory"
)

const testJWTSecret = "test-secret"

func newTestRouter(store *memory.Store, stockService *services.StockService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	if stockService == nil {
		stockService = services.NewStockService("http://127.0.0.1:0")
	}

	r := gin.New()
	routes.SetupRoutes(r, store, stockService, &config.Config{JWTSecret: testJWTSecret})
	return r
}

func authToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, r *gin.Engine, userID, username string) string {
	t.Helper()

	token := authToken(t, userID)
	w := doRequest(t, r, http.MethodPost, "/user/create", token, gin.H{
		"name":     "Test " + username,
		"username": username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return token
}

func TestCreateUserAndGetCurrent(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	token := createTestUser(t, r, "u1", "alice")

	w := doRequest(t, r, http.MethodGet, "/user/current", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)

	def := models.DefaultStockList()
	assert.Contains(t, user.StockLists, def.Name)
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(memory.New(), nil)

	w := doRequest(t, r, http.MethodGet, "/user/current", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/user/current", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	token := authToken(t, "u1")

	w := doRequest(t, r, http.MethodPost, "/user/create", token, gin.H{
		"name":     "No Username",
		"username": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/user/create", token, gin.H{"name": "Missing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsernameAvailability(t *testing.T) {
	r := newTestRouter(memory.New(), nil)

	// Public endpoint, no token needed.
	w := doRequest(t, r, http.MethodPost, "/user/usernameAvailability", "", gin.H{"username": "alice"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["available"])

	createTestUser(t, r, "u1", "alice")

	w = doRequest(t, r, http.MethodPost, "/user/usernameAvailability", "", gin.H{"username": "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp["available"])
}

func TestFollowFlow(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	aliceToken := createTestUser(t, r, "u1", "alice")
	createTestUser(t, r, "u2", "bob")

	w := doRequest(t, r, http.MethodPost, "/user/follow", aliceToken, gin.H{"targetUserId": "u2"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/user/follow", aliceToken, gin.H{"targetUserId": "u2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, r, http.MethodPost, "/user/follow", aliceToken, gin.H{"targetUserId": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/user/follow", aliceToken, gin.H{"targetUserId": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, "/user/is_following/u2", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status["is_following"])

	w = doRequest(t, r, http.MethodGet, "/user/following", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "u2", users[0].ID)

	w = doRequest(t, r, http.MethodGet, "/user/followers?user_id=u2", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)

	w = doRequest(t, r, http.MethodPost, "/user/unfollow", aliceToken, gin.H{"targetUserId": "u2"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/user/unfollow", aliceToken, gin.H{"targetUserId": "u2"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	token := createTestUser(t, r, "u1", "alice")

	w := doRequest(t, r, http.MethodPut, "/user/update", token, gin.H{
		"name":     "Alice Renamed",
		"username": "alice2",
		"bio":      "new bio",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice2", user.Username)
	assert.Equal(t, "new bio", user.Bio)

	w = doRequest(t, r, http.MethodPut, "/user/update", token, gin.H{
		"name":     "Bad",
		"username": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPut, "/user/updateProfileImage", token, gin.H{
		"profile_image_url": "https://example.com/a.png",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/user/delete", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/user/current", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchUsersStripsWatchlists(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	token := createTestUser(t, r, "u1", "alice")
	createTestUser(t, r, "u2", "albert")

	w := doRequest(t, r, http.MethodGet, "/search/users?username=al", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 2)
	for _, entry := range raw {
		assert.NotContains(t, entry, "stockLists")
	}

	w = doRequest(t, r, http.MethodGet, "/search/users", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOtherUserProfile(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	token := createTestUser(t, r, "u1", "alice")
	createTestUser(t, r, "u2", "bob")

	w := doRequest(t, r, http.MethodGet, "/user/u2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "bob", user.Username)

	w = doRequest(t, r, http.MethodGet, "/user/ghost", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
