package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/session"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionContextKey is the key used to store the resolved session in context
	SessionContextKey = "student_session"
)

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// SessionGuard gates protected views on the persisted student session.
// An absent or expired session redirects to the login route silently and
// performs no further work; a valid session is added to the request context
// with its token untouched.
func SessionGuard(cookieName, loginRoute string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil {
			raw = ""
		}

		state := session.Resolve(raw, time.Now())
		if !state.Valid() {
			metrics.SessionGuardRedirects.WithLabelValues(state.Kind.String()).Inc()
			logger.Debug("Session guard redirect",
				zap.String("reason", state.Kind.String()),
				zap.String("path", c.Request.URL.Path))
			c.Redirect(http.StatusFound, loginRoute)
			c.Abort()
			return
		}

		c.Set(SessionContextKey, state)
		c.Next()
	}
}

// GetSession extracts the resolved session from context
func GetSession(c *gin.Context) (session.State, error) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return session.State{}, ErrSessionNotFound
	}

	state, ok := val.(session.State)
	if !ok {
		return session.State{}, ErrInvalidSession
	}

	return state, nil
}
