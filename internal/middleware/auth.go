package middleware

import (
	"net/http"

	"github.com/MichaelDViau/Kunaay-Demo/internal/session"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"github.com/gin-gonic/gin"
)

const currentSessionKey = "currentSession"

// SessionAuth 校验 session cookie，并在 context 里放入当前会话。
// Every successful check slides the session expiry forward.
func SessionAuth(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Authentication required")
			c.Abort()
			return
		}

		s, ok := sessions.Validate(token)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Authentication required")
			c.Abort()
			return
		}

		c.Set(currentSessionKey, s)
		c.Next()
	}
}

// CurrentSession returns the session stored by SessionAuth.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(currentSessionKey)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}
