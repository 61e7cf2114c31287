// Package dashboard owns the statistics dashboard: the refresh cycle, the
// latest rendered view and the scheduled refresh task.
package dashboard

import (
	"context"
	"sync"
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal"
	"newsdesk/internal/analysis"
	"newsdesk/internal/notify"
	"newsdesk/ports"

	"golang.org/x/sync/errgroup"
)

// Phase of the dashboard state machine. There is no error phase: a failed
// refresh falls back to whatever was rendered before.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseRendered Phase = "rendered"
)

// Options tune a Controller.
type Options struct {
	Location    *time.Location
	RecentLimit int
	Now         func() time.Time
	// OnRender is called with every view that becomes current.
	OnRender func(analysis.View)
}

// Controller runs refresh cycles. Refreshes may overlap; each one takes a
// sequence number when it starts and its result is applied only if no later
// refresh has been applied already.
type Controller struct {
	client   ports.ClassifierPort
	notifier *notify.Notifier
	logger   *internal.Logger
	opts     Options

	seq *Sequencer

	mu       sync.RWMutex
	inFlight int
	view     *analysis.View
	health   *prediction.Health
	model    *prediction.ModelInfo
}

// NewController creates a dashboard controller.
func NewController(client ports.ClassifierPort, notifier *notify.Notifier, logger *internal.Logger, opts Options) *Controller {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		client:   client,
		notifier: notifier,
		logger:   logger.With("Dashboard"),
		opts:     opts,
		seq:      NewSequencer(),
	}
}

// Load is the page-load cycle: backend health, model info and history are
// fetched concurrently. Health and model info failures are logged only.
func (c *Controller) Load(ctx context.Context, sessionID string) (analysis.View, error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		health, err := c.client.Health(gctx)
		if err != nil {
			c.logger.Warn("Health check failed: %v", err)
			return nil
		}
		c.mu.Lock()
		c.health = health
		c.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		model, err := c.client.ModelInfo(gctx)
		if err != nil {
			c.logger.Warn("Model info unavailable: %v", err)
			return nil
		}
		c.mu.Lock()
		c.model = model
		c.mu.Unlock()
		return nil
	})

	var view analysis.View
	g.Go(func() error {
		var err error
		view, err = c.Refresh(gctx, sessionID)
		return err
	})

	err := g.Wait()
	return view, err
}

// Refresh fetches the full history and rebuilds every aggregate. On failure
// the error is reported to sessionID (to everyone when empty) and the
// previous view stays current. The returned view is the current one after
// this cycle, which may belong to a newer overlapping refresh.
func (c *Controller) Refresh(ctx context.Context, sessionID string) (analysis.View, error) {
	seq := c.seq.Next()
	c.begin()
	defer c.end()

	records, err := c.client.History(ctx)
	if err != nil {
		c.logger.Error("Refresh #%d failed: %v", seq, err)
		if c.notifier != nil && ctx.Err() == nil {
			c.notifier.FromError(sessionID, err)
		}
		view, _ := c.Current()
		return view, err
	}

	view := analysis.BuildView(records, c.opts.Now(), c.opts.Location, c.opts.RecentLimit)
	view.Sequence = seq

	current, applied := c.apply(view)
	if applied {
		c.logger.Debug("Refresh #%d rendered %d records", seq, view.Stats.Total)
		if c.opts.OnRender != nil {
			c.opts.OnRender(view)
		}
	} else {
		c.logger.Debug("Refresh #%d discarded, #%d already rendered", seq, current.Sequence)
	}
	return current, nil
}

// apply installs view unless a newer one is current.
func (c *Controller) apply(view analysis.View) (analysis.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seq.Admit(view.Sequence) {
		return *c.view, false
	}
	c.view = &view
	return view, true
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}

// Current returns the rendered view, if any.
func (c *Controller) Current() (analysis.View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.view == nil {
		return analysis.View{}, false
	}
	return *c.view, true
}

// Phase reports the state machine position.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case c.inFlight > 0:
		return PhaseLoading
	case c.view != nil:
		return PhaseRendered
	default:
		return PhaseIdle
	}
}

// Health returns the last backend health seen by Load.
func (c *Controller) Health() *prediction.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// ModelInfo returns the cached model metadata.
func (c *Controller) ModelInfo() *prediction.ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}
