package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/gin-gonic/gin"
)

func InitRoutes(h *Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(Logger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.FromContextOrDiscard(c.Request.Context()).Error("panic while handling request", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
	}))
	router.Use(CORS())

	router.GET("/", h.Root)
	router.POST("/kitten-image", h.KittenImage)
	router.GET("/img/:id", h.Image)
	router.GET("/kitten/:id", h.Page)
	router.GET("/feed.rss", h.Feed)

	return router
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger puts the logger on the request context and logs every request once it is done.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(log.NewContext(c.Request.Context(), logger))

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			logger.Error("request failed", attrs...)
		} else {
			logger.Info("request processed", attrs...)
		}
	}
}
