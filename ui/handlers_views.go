package ui

import (
	"html/template"
	"io/fs"
	"net/http"

	"newsdesk/domain/prediction"
	"newsdesk/internal/notify"
	"newsdesk/ui/templates/fragments"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// AboutData is the about page model.
type AboutData struct {
	Title         string
	Page          string
	Health        HealthView
	Body          template.HTML
	Model         *prediction.ModelInfo
	Verdicts      []prediction.Verdict
	Notifications []notify.Notification
}

// renderMarkdown converts an embedded markdown document to HTML.
func (s *Server) renderMarkdown(path string) (template.HTML, error) {
	md, err := fs.ReadFile(s.embeddedFiles, path)
	if err != nil {
		return "", err
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return template.HTML(markdown.Render(p.Parse(md), renderer)), nil
}

func (s *Server) handleAbout(c *gin.Context) {
	body, err := s.renderMarkdown("templates/content/about.md")
	if err != nil {
		s.logger.Error("[handleAbout] %v", err)
	}

	model, err := s.client.ModelInfo(c.Request.Context())
	if err != nil {
		s.logger.Debug("[handleAbout] Model info unavailable: %v", err)
		model = s.dashboard.ModelInfo()
	}

	s.renderTemplate(c, http.StatusOK, fragments.AboutPage, AboutData{
		Title:  "About",
		Page:   "about",
		Health: s.healthView(c),
		Body:   body,
		Model:  model,
		// One sample per band, so the legend shows the live thresholds.
		Verdicts: []prediction.Verdict{
			prediction.Analyze(prediction.FakeThreshold),
			prediction.Analyze(prediction.SuspiciousThreshold),
			prediction.Analyze(0),
		},
		Notifications: s.notifier.Active(sessionID(c)),
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	health := s.healthView(c)
	code, status := http.StatusOK, "ok"
	if !health.Reachable {
		code, status = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{
		"status":          status,
		"backend":         health,
		"dashboard_phase": s.dashboard.Phase(),
		"sse_clients":     s.hub.TotalClients(),
	})
}
