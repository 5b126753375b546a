package routes

import (
	"stallfinder/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up routes for the caller's own profile and for
// browsing another user's review history.
func SetupUserRoutes(
	r *gin.RouterGroup,
	userHandler *handlers.UserHandler,
	reviewHandler *handlers.ReviewHandler,
	usageHandler *handlers.UsageHandler,
	favoriteHandler *handlers.FavoriteHandler,
	authRequired gin.HandlerFunc,
	optionalAuth gin.HandlerFunc,
) {
	me := r.Group("/users/me")
	me.Use(authRequired)
	{
		me.GET("", userHandler.Profile)
		me.PUT("", userHandler.UpdateProfile)
		me.PUT("/privacy", userHandler.SetPrivacy)

		me.GET("/visits", usageHandler.VisitHistory)
		me.GET("/visits/total", usageHandler.TotalUses)
		me.GET("/favorites", favoriteHandler.List)
	}

	users := r.Group("/users")
	users.Use(optionalAuth)
	{
		users.GET("/:email", userHandler.PublicProfile)
		users.GET("/:email/reviews", reviewHandler.ListForUser)
	}
}
