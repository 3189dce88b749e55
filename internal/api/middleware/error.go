package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/sirupsen/logrus"
)

// ErrorHandlerMiddleware turns panics and unhandled handler errors into 500s
func ErrorHandlerMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				RequestLogger(c, log).WithField("panic", rec).Error("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Message: "Internal server error",
				})
			}
		}()

		c.Next()

		// Handlers that wrote a response already reported their own error
		if len(c.Errors) > 0 && !c.Writer.Written() {
			RequestLogger(c, log).WithError(c.Errors.Last()).Error("unhandled request error")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Message: "Internal server error",
			})
		}
	}
}
