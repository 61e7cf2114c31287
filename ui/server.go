package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal"
	"newsdesk/internal/charts"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/notify"
	"newsdesk/internal/session"
	"newsdesk/internal/submission"
	"newsdesk/ports"
	"newsdesk/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedFiles embed.FS

// Options tune page rendering.
type Options struct {
	HomeHistoryLimit      int
	DashboardHistoryLimit int
	Location              *time.Location
	// AccessLog adds gin's request logger.
	AccessLog bool
}

// Deps are the collaborators a Server renders.
type Deps struct {
	Client     ports.ClassifierPort
	Sessions   *session.Store
	Submission *submission.Controller
	Dashboard  *dashboard.Controller
	Notifier   *notify.Notifier
	Hub        *notify.Hub
	Charts     *charts.Renderer
	Logger     *internal.Logger
}

// Server represents the web server for the newsdesk UI
type Server struct {
	router        *gin.Engine
	templates     *template.Template
	embeddedFiles embed.FS
	opts          Options
	logger        *internal.Logger
	now           func() time.Time

	client     ports.ClassifierPort
	sessions   *session.Store
	submission *submission.Controller
	dashboard  *dashboard.Controller
	notifier   *notify.Notifier
	hub        *notify.Hub
	charts     *charts.Renderer
}

// NewServer creates a new web server instance
func NewServer(deps Deps, opts Options) (*Server, error) {
	if opts.HomeHistoryLimit <= 0 {
		opts.HomeHistoryLimit = 5
	}
	if opts.DashboardHistoryLimit <= 0 {
		opts.DashboardHistoryLimit = 10
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if deps.Charts == nil {
		deps.Charts = charts.NewRenderer()
	}

	s := &Server{
		router:        gin.New(),
		embeddedFiles: embeddedFiles,
		opts:          opts,
		logger:        deps.Logger.With("UI"),
		now:           time.Now,
		client:        deps.Client,
		sessions:      deps.Sessions,
		submission:    deps.Submission,
		dashboard:     deps.Dashboard,
		notifier:      deps.Notifier,
		hub:           deps.Hub,
		charts:        deps.Charts,
	}
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize parses templates and registers middleware and routes
func (s *Server) Initialize() error {
	funcMap := template.FuncMap{
		"upper":   strings.ToUpper,
		"percent": prediction.FormatPercent,
		"add":     func(a, b int) int { return a + b },
		"truncate": func(s string, n int) string {
			return prediction.Truncate(s, n)
		},
		"localTime": func(t time.Time) string {
			return t.In(s.opts.Location).Format("Jan 2, 15:04:05")
		},
		"category": func(result string) string {
			return string(prediction.ParseCategory(result))
		},
	}

	templatesFS, err := fs.Sub(s.embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap)

	files1, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob root templates: %w", err)
	}
	files2, err := fs.Glob(templatesFS, "*/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob nested templates: %w", err)
	}
	files := append(files1, files2...)
	s.logger.Debug("Found %d template files: %v", len(files), files)

	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	for _, name := range fragments.GetAllTemplatePaths() {
		if s.templates.Lookup(name) == nil {
			return fmt.Errorf("template %s (%s) is missing", name, fragments.GetTemplateCategory(name))
		}
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	if s.opts.AccessLog {
		s.router.Use(gin.Logger())
	}
	s.router.Use(gin.Recovery())

	staticFS, err := fs.Sub(s.embeddedFiles, "static")
	if err != nil {
		s.logger.Error("Error creating static filesystem: %v", err)
	} else {
		s.router.StaticFS("/static", http.FS(staticFS))
	}

	s.router.Use(SessionMiddleware(s.sessions))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/predict", s.handlePredict)
	s.router.GET("/history", s.handleHistory)

	s.router.GET("/dashboard", s.handleDashboard)
	s.router.POST("/dashboard/refresh", s.handleDashboardRefresh)
	s.router.GET("/dashboard/charts/:name", s.handleChart)
	s.router.GET("/dashboard/export.xlsx", s.handleExport)
	s.router.GET("/api/dashboard", s.handleDashboardJSON)

	s.router.GET("/events", s.handleEvents)
	s.router.POST("/notifications/:id/dismiss", s.handleDismiss)

	s.router.GET("/about", s.handleAbout)
	s.router.GET("/healthz", s.handleHealthz)
}

// Handler exposes the router, e.g. for http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}
