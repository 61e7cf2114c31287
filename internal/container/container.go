package container

import (
	"context"
	"fmt"
	"time"

	"newsdesk/adapters/classifier"
	"newsdesk/internal"
	"newsdesk/internal/analysis"
	"newsdesk/internal/config"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/notify"
	"newsdesk/internal/session"
	"newsdesk/internal/submission"
	"newsdesk/ui"

	"github.com/gin-gonic/gin"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	sessionIdleTimeout     = 24 * time.Hour
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Backend
	Client *classifier.Client

	// Notifications
	Hub      *notify.Hub
	Notifier *notify.Notifier

	// Page controllers
	Sessions   *session.Store
	Submission *submission.Controller
	Dashboard  *dashboard.Controller

	// Web
	Server *ui.Server

	// Scheduled tasks
	refresher *dashboard.Poller
	janitor   *dashboard.Poller
}

// New creates the dependency container. Nothing runs until Start.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.initBackend()
	c.initNotifications()
	c.initControllers()

	if err := c.initServer(); err != nil {
		c.Notifier.Close()
		return nil, fmt.Errorf("failed to initialize web server: %w", err)
	}
	c.initScheduledTasks()

	c.Logger.Debug("Container initialized for backend %s", cfg.Backend.URL)
	return c, nil
}

func (c *Container) initBackend() {
	c.Client = classifier.NewClient(
		classifier.WithBaseURL(c.Config.Backend.URL),
		classifier.WithTimeout(c.Config.Backend.Timeout),
	)
}

func (c *Container) initNotifications() {
	c.Hub = notify.NewHub(c.Logger)
	c.Notifier = notify.NewNotifier(c.Config.Notify.TTL, c.Hub, c.Logger)
}

func (c *Container) initControllers() {
	c.Sessions = session.NewStore()
	c.Submission = submission.NewController(c.Client, c.Notifier, c.Logger)
	c.Dashboard = dashboard.NewController(c.Client, c.Notifier, c.Logger, dashboard.Options{
		Location:    c.Config.Dashboard.Location,
		RecentLimit: c.Config.Dashboard.DashboardHistoryLimit,
		// Open dashboards pull the new body when told a newer view exists.
		OnRender: func(view analysis.View) {
			c.Hub.Publish(notify.Event{Type: notify.EventRefresh, Sequence: view.Sequence})
		},
	})
}

func (c *Container) initServer() error {
	server, err := ui.NewServer(ui.Deps{
		Client:     c.Client,
		Sessions:   c.Sessions,
		Submission: c.Submission,
		Dashboard:  c.Dashboard,
		Notifier:   c.Notifier,
		Hub:        c.Hub,
		Logger:     c.Logger,
	}, ui.Options{
		HomeHistoryLimit:      c.Config.Dashboard.HomeHistoryLimit,
		DashboardHistoryLimit: c.Config.Dashboard.DashboardHistoryLimit,
		Location:              c.Config.Dashboard.Location,
		AccessLog:             c.Config.Server.GinMode != gin.ReleaseMode,
	})
	if err != nil {
		return err
	}
	c.Server = server
	return nil
}

func (c *Container) initScheduledTasks() {
	// Scheduled refreshes have no owning page, so failures go to everyone.
	c.refresher = dashboard.NewPoller(c.Config.Dashboard.RefreshInterval, func(ctx context.Context) {
		if _, err := c.Dashboard.Refresh(ctx, ""); err != nil {
			c.Logger.Debug("Scheduled refresh failed: %v", err)
		}
	}, c.Logger)

	c.janitor = dashboard.NewPoller(sessionCleanupInterval, func(context.Context) {
		if n := c.Sessions.CleanupExpired(sessionIdleTimeout); n > 0 {
			c.Logger.Info("Expired %d idle sessions", n)
		}
	}, c.Logger)
}

// Start launches the scheduled tasks. They stop when ctx is canceled or on
// Shutdown, whichever comes first.
func (c *Container) Start(ctx context.Context) error {
	if err := c.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard refresh: %w", err)
	}
	if err := c.janitor.Start(ctx); err != nil {
		c.refresher.Stop()
		return fmt.Errorf("failed to start session cleanup: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.refresher.Stop()
		c.janitor.Stop()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("scheduled tasks did not stop: %w", ctx.Err())
	}
	c.Notifier.Close()
	return err
}
