package routes

import (
	"stallfinder/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up routes for sign-in and session management
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, authRequired gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.SocialLogin)
		auth.GET("/google", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	session := r.Group("/auth")
	session.Use(authRequired)
	{
		session.POST("/logout", authHandler.Logout)
	}
}
