package routes

import (
	"stallfinder/internal/handlers"
	"stallfinder/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupUploadRoutes sets up routes for photo uploads
func SetupUploadRoutes(r *gin.RouterGroup, uploadHandler *handlers.UploadHandler, authRequired gin.HandlerFunc) {
	uploads := r.Group("/uploads")
	uploads.Use(authRequired)
	{
		uploads.POST("/image", uploadHandler.UploadImage)
	}
}

// SetupWebSocketRoutes sets up the realtime update endpoint
func SetupWebSocketRoutes(r *gin.RouterGroup, wsHandler *websocket.Handler, authRequired gin.HandlerFunc) {
	r.GET("/ws", authRequired, wsHandler.HandleWebSocket)
}
