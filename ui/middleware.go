package ui

import (
	"net/http"

	"newsdesk/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "newsdesk_session"
	sessionKey    = "sessionID"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// SessionMiddleware makes sure every request carries a session ID, issuing a
// cookie on first visit. Values that are not UUIDs are replaced.
func SessionMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = session.NewID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// sessionID returns the ID set by SessionMiddleware.
func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// wantsJSON reports whether the caller asked for JSON rather than HTML.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON ||
		c.ContentType() == gin.MIMEJSON
}

// isFetch reports whether the request came from the page script, which
// swaps returned fragments into place.
func isFetch(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "fetch"
}
