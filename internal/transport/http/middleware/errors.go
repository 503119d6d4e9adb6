package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ragbridge/internal/logger"
	"ragbridge/internal/transport/http/response"
)

// ErrorHandler normalizes every request-time fault into the JSON envelope.
// Panics are recovered and logged; errors collected on the context are
// converted to a 500 if no handler wrote a response. Faults never take the
// process down.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(map[string]interface{}{"panic": toString(r)}, c.Request.URL.Path)
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			log.Error(map[string]interface{}{"error": err.Error()}, c.Request.URL.Path)
			if !c.Writer.Written() {
				response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
			}
		}
	}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return t.Error()
	default:
		return fmt.Sprint(t)
	}
}
