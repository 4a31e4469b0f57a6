package router

import (
	"inkwell/internal/cache"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	feed := services.NewFeedService(cache.Default())

	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler(feed)
	userHandler := handlers.NewUserHandler(feed)

	// Public routes
	r.GET("/", postHandler.Index)                 // global feed, briefly cached
	r.GET("/group/:slug", postHandler.GroupPosts) // first posts of a group
	r.GET("/:username", userHandler.Profile)      // author page
	r.GET("/:username/:postID", postHandler.Detail)

	auth := r.Group("/auth")
	{
		auth.GET("/signup", authHandler.ShowRegister)
		auth.POST("/signup", authHandler.Register)
		auth.GET("/login", authHandler.ShowLogin)
		auth.POST("/login", authHandler.Login)
		auth.GET("/logout", authHandler.Logout)
	}

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/new", postHandler.ShowCreate)
		authorized.POST("/new", postHandler.Create)
		authorized.GET("/follow", postHandler.FollowIndex) // personalized feed
		authorized.GET("/:username/:postID/edit", postHandler.ShowEdit)
		authorized.POST("/:username/:postID/edit", postHandler.Update)
		authorized.POST("/:username/:postID/comment", postHandler.CreateComment)
		authorized.POST("/:username/follow", userHandler.Follow)
		authorized.POST("/:username/unfollow", userHandler.Unfollow)
	}

	// Fallback pages
	r.NoRoute(handlers.NotFound)
}
