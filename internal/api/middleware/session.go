package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/sirupsen/logrus"
)

const SessionContextKey = "session"

// SessionStore is a sessions.Store that can rotate session ids.
type SessionStore interface {
	sessions.Store
	Renew(r *http.Request, session *sessions.Session) error
}

// SessionMiddleware loads the named session into the request context
func SessionMiddleware(store SessionStore, name string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, name)
		if err != nil {
			RequestLogger(c, log).WithError(err).Error("failed to load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Message: "Error loading session",
			})
			return
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// GetSession retrieves the session loaded by SessionMiddleware
func GetSession(c *gin.Context) (*sessions.Session, bool) {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, false
	}

	session, ok := value.(*sessions.Session)
	return session, ok
}
