package client

import (
	"context"
	"sync"
	"time"
)

const (
	// StudentPollInterval refreshes single-student data.
	StudentPollInterval = 30 * time.Second
	// RankingsPollInterval refreshes the rankings board.
	RankingsPollInterval = 60 * time.Second

	// onlineSettleDelay lets connectivity stabilize before refreshing after
	// an online event.
	onlineSettleDelay = 2 * time.Second
)

type (
	// FetchFunc loads one full dataset for a cycle.
	FetchFunc func(ctx context.Context) (interface{}, error)

	// RenderFunc shows a complete dataset. It is only ever called with data
	// from the newest cycle.
	RenderFunc func(data interface{})

	// ControllerOptions wires one dashboard page's refresh pipeline.
	ControllerOptions struct {
		Fetch    FetchFunc
		Render   RenderFunc
		OnError  func(*Error) // retry affordance etc.; cancellations are not reported
		Interval time.Duration
		Online   func() bool // nil means always online

		// logout path
		ServerLogout func(ctx context.Context) error // best-effort, may be nil
		Store        SessionStore
		Navigate     func(target string)
	}
)

// Controller drives fetch-transform-render cycles with single-flight
// guarding, cancellation and straggler protection. One instance per page;
// no shared module state.
type Controller struct {
	opts ControllerOptions

	mu         sync.Mutex
	busy       bool
	generation uint64
	cancel     context.CancelFunc
}

func NewController(opts ControllerOptions) *Controller {
	if opts.Online == nil {
		opts.Online = func() bool { return true }
	}
	if opts.Navigate == nil {
		opts.Navigate = func(string) {}
	}
	return &Controller{opts: opts}
}

// Refresh runs one cycle. While another cycle is in flight the request is
// declined, not queued: no second network request is started.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.cycle(ctx, false)
}

// Supersede starts a legitimately new cycle, aborting any in-flight request
// first. The aborted cycle's straggler response is discarded.
func (c *Controller) Supersede(ctx context.Context) error {
	return c.cycle(ctx, true)
}

func (c *Controller) cycle(ctx context.Context, supersede bool) error {
	c.mu.Lock()
	if c.busy {
		if !supersede {
			c.mu.Unlock()
			return ErrRefreshInProgress
		}
		c.cancel()
	}
	c.generation++
	gen := c.generation
	cctx, cancel := context.WithCancel(ctx)
	c.busy = true
	c.cancel = cancel
	c.mu.Unlock()

	defer cancel()

	data, err := c.opts.Fetch(cctx)

	c.mu.Lock()
	isCurrent := gen == c.generation
	if isCurrent {
		// only the newest cycle may clear the flag; a straggler must not
		// unlock a page another cycle owns
		c.busy = false
		c.cancel = nil
	}
	c.mu.Unlock()

	if !isCurrent {
		// superseded: the response, if any, is discarded
		return &Error{Kind: KindCancelled, Op: "refresh"}
	}
	if err != nil {
		cerr := c.classify(err)
		if cerr.Kind != KindCancelled && c.opts.OnError != nil {
			c.opts.OnError(cerr)
		}
		return cerr
	}

	c.opts.Render(data)
	return nil
}

func (c *Controller) classify(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	if err == context.Canceled {
		return &Error{Kind: KindCancelled, Op: "refresh", Err: err}
	}
	return &Error{Kind: KindOther, Op: "refresh", Err: err}
}

// CancelInFlight aborts the current cycle, if any.
func (c *Controller) CancelInFlight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Busy reports whether a cycle is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Run drives the page loop: an initial refresh, then interval polls and
// online-event retriggers. Both skip while offline and both yield to an
// in-flight cycle. Blocks until ctx is done.
func (c *Controller) Run(ctx context.Context, onlineEvents <-chan struct{}) {
	_ = c.Refresh(ctx)

	interval := c.opts.Interval
	if interval <= 0 {
		interval = RankingsPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.opts.Online() {
				continue
			}
			_ = c.Refresh(ctx) // declined while busy
		case _, open := <-onlineEvents:
			if !open {
				onlineEvents = nil
				continue
			}
			if !c.opts.Online() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(onlineSettleDelay):
			}
			_ = c.Refresh(ctx)
		}
	}
}

// Logout leaves the page: it aborts any in-flight cycle, tells the server on
// a short leash, then clears local state and navigates no matter what the
// server said.
func (c *Controller) Logout(ctx context.Context) {
	c.CancelInFlight()

	if c.opts.ServerLogout != nil {
		lctx, cancel := context.WithTimeout(ctx, logoutTimeout)
		_ = c.opts.ServerLogout(lctx) // failure ignored
		cancel()
	}

	if c.opts.Store != nil {
		_ = c.opts.Store.Clear()
	}
	c.opts.Navigate("login")
}
