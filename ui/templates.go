package ui

import (
	"bytes"
	"net/http"

	"newsdesk/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data. The output is
// buffered so a failing template never leaves a half-written page.
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error for %s: %v", templateName, err)
		s.logger.Debug("Template data type: %T", data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	if !fragments.IsFragment(templateName) && !bytes.Contains(buf.Bytes(), []byte("</html>")) {
		s.logger.Warn("Rendered template %s appears truncated - missing </html> tag", templateName)
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// renderPartial renders a fragment with a 200 status.
func (s *Server) renderPartial(c *gin.Context, templateName string, data interface{}) {
	s.renderTemplate(c, http.StatusOK, templateName, data)
}
