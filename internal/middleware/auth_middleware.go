package middleware

import (
	"net/http"
	"strings"

	"stallfinder/internal/models"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and loads the user onto the
// request context.
func AuthRequired(jwtSecret string, authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)

		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present but lets
// anonymous requests through. Query endpoints use it to decide whether
// a viewer may see their own anonymous reviews.
func OptionalAuth(jwtSecret string, authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.Next()
			return
		}

		if user, err := authService.CurrentUser(c.Request.Context(), claims.UserID); err == nil {
			c.Set("user_id", user.ID)
			c.Set("user", user)
		}

		c.Next()
	}
}

// CurrentUser pulls the authenticated user off the context. Returns nil
// for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil
	}

	return user
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}

	return tokenString
}

// RequireUser aborts with 401 when AuthRequired did not run first.
func RequireUser(c *gin.Context) (*models.User, bool) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return nil, false
	}

	return user, true
}
