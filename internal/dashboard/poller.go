package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"newsdesk/internal"

	"github.com/robfig/cron/v3"
)

// Poller runs a task on a fixed interval until stopped. Stop cancels the
// context handed to the task, so an in-flight fetch is aborted with it.
type Poller struct {
	interval time.Duration
	task     func(ctx context.Context)
	logger   *internal.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	started bool
}

// NewPoller creates a poller. Intervals are rounded to whole seconds by cron.
func NewPoller(interval time.Duration, task func(ctx context.Context), logger *internal.Logger) *Poller {
	return &Poller{
		interval: interval,
		task:     task,
		logger:   logger.With("Poller"),
	}
}

// Start schedules the task. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(p.logger))))
	schedule := fmt.Sprintf("@every %s", p.interval)
	if _, err := c.AddFunc(schedule, func() { p.task(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}

	c.Start()
	p.cron = c
	p.cancel = cancel
	p.started = true
	p.logger.Info("Refreshing every %s", p.interval)
	return nil
}

// Stop cancels the running task, if any, and waits for it to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.cancel()
	<-p.cron.Stop().Done()
	p.started = false
	p.logger.Info("Stopped")
}

// Running reports whether the poller is scheduled.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}
