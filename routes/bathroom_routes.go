package routes

import (
	"stallfinder/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBathroomRoutes sets up routes for bathrooms and everything hanging
// off a bathroom: reviews, visits and favorites.
func SetupBathroomRoutes(
	r *gin.RouterGroup,
	bathroomHandler *handlers.BathroomHandler,
	reviewHandler *handlers.ReviewHandler,
	usageHandler *handlers.UsageHandler,
	favoriteHandler *handlers.FavoriteHandler,
	authRequired gin.HandlerFunc,
	optionalAuth gin.HandlerFunc,
) {
	// Public reads. OptionalAuth lets review listings unmask the caller's
	// own anonymous reviews.
	public := r.Group("/bathrooms")
	public.Use(optionalAuth)
	{
		public.GET("", bathroomHandler.List)
		public.GET("/top-rated", bathroomHandler.TopRated)
		public.GET("/most-used", bathroomHandler.MostUsed)
		public.GET("/nearby", bathroomHandler.Nearest)
		public.GET("/clusters", bathroomHandler.Clusters)
		public.GET("/:id", bathroomHandler.Get)
		public.GET("/:id/reviews", reviewHandler.ListForBathroom)
	}

	protected := r.Group("/bathrooms")
	protected.Use(authRequired)
	{
		protected.POST("", bathroomHandler.Create)
		protected.POST("/:id/reviews", reviewHandler.Create)

		protected.POST("/:id/visits", usageHandler.LogVisit)
		protected.GET("/:id/visits/count", usageHandler.BathroomVisitCount)

		protected.PUT("/:id/favorite", favoriteHandler.Add)
		protected.DELETE("/:id/favorite", favoriteHandler.Remove)
		protected.GET("/:id/favorite", favoriteHandler.Check)
	}

	reviews := r.Group("/reviews")
	reviews.Use(authRequired)
	{
		reviews.DELETE("/:id", reviewHandler.Delete)
	}
}
