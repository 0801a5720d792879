// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stocktalk-api/config"
	"stocktalk-api/controllers"
	"stocktalk-api/middleware"
	"stocktalk-api/services"
	"stocktalk-api/storage"
)

// SetupCORS allows browser clients from any origin.
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, store storage.Storage, stockService *services.StockService, cfg *config.Config) {
	// Controllers
	userController := controllers.NewUserController(store)
	postController := controllers.NewPostController(store)
	commentController := controllers.NewCommentController(store)
	stockController := controllers.NewStockController(store, stockService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Public routes
	r.POST("/user/usernameAvailability", userController.UsernameAvailability)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		user := protected.Group("/user")
		{
			user.POST("/create", userController.CreateUser)
			user.PUT("/update", userController.UpdateUser)
			user.DELETE("/delete", userController.DeleteUser)
			user.GET("/current", userController.GetCurrentUser)
			user.GET("/followers", userController.GetFollowers)
			user.GET("/following", userController.GetFollowing)
			user.GET("/is_following/:targetUserId", userController.IsFollowing)
			user.POST("/follow", userController.FollowUser)
			user.POST("/unfollow", userController.UnfollowUser)
			user.PUT("/updateProfileImage", userController.UpdateProfileImage)
			user.GET("/:userID", userController.GetUser)
		}

		// Post routes
		posts := protected.Group("/posts")
		{
			posts.POST("/create", postController.CreatePost)
			posts.DELETE("/delete/:postId", postController.DeletePost)
			posts.GET("/fetch", postController.GetFeed)
			posts.GET("/user", postController.GetUserPosts)
			posts.POST("/like/:postId", postController.LikePost)
			posts.POST("/unlike/:postId", postController.UnlikePost)
		}

		// Comment routes
		comments := protected.Group("/comments")
		{
			comments.POST("/create", commentController.CreateComment)
			comments.DELETE("/delete/:postId/:commentId", commentController.DeleteComment)
			comments.GET("/fetch", commentController.GetComments)
			comments.POST("/like/:postId/:commentId", commentController.LikeComment)
			comments.POST("/unlike/:postId/:commentId", commentController.UnlikeComment)
		}

		// Search routes
		search := protected.Group("/search")
		{
			search.GET("/users", userController.SearchUsers)
			search.GET("/stocks", stockController.SearchStocks)
		}

		// Stock routes
		stock := protected.Group("/stock")
		{
			stock.GET("/info/:ticker", stockController.GetStockInfo)
			stock.GET("/prices", stockController.GetStockPrices)
			stock.POST("/stockLists/create", stockController.CreateStockList)
			stock.PUT("/stockLists/update/:listName", stockController.UpdateStockList)
			stock.DELETE("/stockLists/delete/:listName", stockController.DeleteStockList)
		}
	}
}
