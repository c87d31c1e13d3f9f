// Package middleware holds the gin middlewares shared by every route.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached by handlers once and renders the uniform
// 500 envelope when nothing has been written yet.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, ginErr := range c.Errors {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(ginErr.Err))
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": http.StatusText(http.StatusInternalServerError),
			"status":  http.StatusInternalServerError,
		})
	}
}
