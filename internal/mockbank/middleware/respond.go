package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/eaglebank/console/internal/validation"
	"github.com/gin-gonic/gin"
)

func RespondWithValidationError(c *gin.Context, validationErrors []validation.ValidationError) {
	fieldErrors := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors[e.Field] = e.Message
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Invalid request data",
		"details": validationErrors,
		"errors":  fieldErrors,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("level=info component=mockbank method=%s path=%s status=%d duration=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
