package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates the gin engine with all routes configured. A nil
// refreshLimiter disables rate limiting of refresh requests.
func NewServer(handler *Handler, refreshLimiter *RateLimiter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health", "/metrics"},
	}))

	r.Use(gin.Recovery())
	r.Use(metricsMiddleware())
	r.Use(corsMiddleware())

	r.NoMethod(handler.MethodNotAllowed)

	setupRoutes(r, handler, refreshLimiter)

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func setupRoutes(r *gin.Engine, handler *Handler, refreshLimiter *RateLimiter) {
	api := r.Group("/api")
	{
		if refreshLimiter != nil {
			api.GET("/episodes", refreshLimiter.Middleware(func(c *gin.Context) bool {
				return c.Query("refresh") == "true"
			}), handler.GetEpisodes)
			api.POST("/episodes/refresh", refreshLimiter.Middleware(nil), handler.RefreshEpisodes)
		} else {
			api.GET("/episodes", handler.GetEpisodes)
			api.POST("/episodes/refresh", handler.RefreshEpisodes)
		}
	}

	r.GET("/feed.xml", handler.GetFeed)
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "Episode Timeline",
			"version":     handler.version,
			"description": "Merged episode timeline of The Regulation Podcast feeds",
			"endpoints": map[string]string{
				"episodes": "/api/episodes?type=<type>&search=<text>&refresh=<true|false>",
				"refresh":  "/api/episodes/refresh (POST)",
				"feed":     "/feed.xml",
				"health":   "/health",
				"metrics":  "/metrics",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
