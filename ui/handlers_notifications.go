package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleEvents streams the session's notifications and dashboard refreshes.
func (s *Server) handleEvents(c *gin.Context) {
	s.hub.Stream(c, sessionID(c))
}

func (s *Server) handleDismiss(c *gin.Context) {
	if !s.notifier.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
