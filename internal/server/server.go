// Package server serves a diagram session over a JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tordrt/erdsketch/internal/session"
)

// NewRouter builds the gin engine for a session.
func NewRouter(s *session.Session, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	RegisterRoutes(router, NewDiagramHandler(s))
	return router
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, s *session.Session, logger *zap.SugaredLogger) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(s, logger),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			logger.Errorw("request", fields...)
			return
		}
		logger.Debugw("request", fields...)
	}
}
