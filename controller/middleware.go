package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestLogger tags every request with an id and writes one access log line
// once the handler chain finished
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		requestedAt := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"requestId": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"elapsed":   time.Since(requestedAt).String(),
		}).Info("http access")
	}
}
