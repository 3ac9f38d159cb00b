package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingFetch releases each call only when told to, so tests control the
// exact interleaving of cycles.
type blockingFetch struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}    // signaled when a fetch begins
	release chan interface{} // what each fetch returns once released
	ctxs    []context.Context
}

func newBlockingFetch() *blockingFetch {
	return &blockingFetch{
		started: make(chan struct{}, 8),
		release: make(chan interface{}, 8),
	}
}

func (bf *blockingFetch) fetch(ctx context.Context) (interface{}, error) {
	bf.mu.Lock()
	bf.calls++
	bf.ctxs = append(bf.ctxs, ctx)
	bf.mu.Unlock()
	bf.started <- struct{}{}

	select {
	case data := <-bf.release:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (bf *blockingFetch) callCount() int {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	return bf.calls
}

func (bf *blockingFetch) ctx(i int) context.Context {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	return bf.ctxs[i]
}

type renderSpy struct {
	mu       sync.Mutex
	rendered []interface{}
}

func (rs *renderSpy) render(data interface{}) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rendered = append(rs.rendered, data)
}

func (rs *renderSpy) all() []interface{} {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]interface{}(nil), rs.rendered...)
}

func TestController_secondRefreshDeclined(t *testing.T) {
	bf := newBlockingFetch()
	rs := &renderSpy{}
	c := NewController(ControllerOptions{Fetch: bf.fetch, Render: rs.render})

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-bf.started

	// busy: declined, not queued, no second network request
	err := c.Refresh(context.Background())
	assert.Equal(t, ErrRefreshInProgress, err)
	assert.Equal(t, 1, bf.callCount())

	bf.release <- "data-1"
	require.NoError(t, <-done)
	assert.Equal(t, []interface{}{"data-1"}, rs.all())

	// idle again: next refresh goes through
	go func() { done <- c.Refresh(context.Background()) }()
	<-bf.started
	bf.release <- "data-2"
	require.NoError(t, <-done)
	assert.Equal(t, 2, bf.callCount())
}

func TestController_supersedeCancelsInFlight(t *testing.T) {
	bf := newBlockingFetch()
	rs := &renderSpy{}
	c := NewController(ControllerOptions{Fetch: bf.fetch, Render: rs.render})

	first := make(chan error, 1)
	go func() { first <- c.Refresh(context.Background()) }()
	<-bf.started

	second := make(chan error, 1)
	go func() { second <- c.Supersede(context.Background()) }()
	<-bf.started

	// the first cycle's abort signal fired
	select {
	case <-bf.ctx(0).Done():
	case <-time.After(2 * time.Second):
		t.Fatal("first request was not cancelled")
	}

	err := <-first
	assert.Equal(t, KindCancelled, KindOf(err))

	bf.release <- "fresh"
	require.NoError(t, <-second)
	assert.Equal(t, []interface{}{"fresh"}, rs.all())
}

func TestController_stragglerNeverOverwrites(t *testing.T) {
	bf := newBlockingFetch()
	rs := &renderSpy{}
	c := NewController(ControllerOptions{Fetch: bf.fetch, Render: rs.render})

	// straggler: the first fetch ignores its cancellation and still returns data
	stale := make(chan struct{})
	fetchIgnoringCancel := func(ctx context.Context) (interface{}, error) {
		bf.mu.Lock()
		bf.calls++
		call := bf.calls
		bf.mu.Unlock()
		bf.started <- struct{}{}
		if call == 1 {
			<-stale
			return "stale", nil // arrives after being superseded
		}
		return <-bf.release, nil
	}
	c.opts.Fetch = fetchIgnoringCancel

	first := make(chan error, 1)
	go func() { first <- c.Refresh(context.Background()) }()
	<-bf.started

	second := make(chan error, 1)
	go func() { second <- c.Supersede(context.Background()) }()
	<-bf.started

	bf.release <- "fresh"
	require.NoError(t, <-second)

	close(stale)
	err := <-first
	assert.Equal(t, KindCancelled, KindOf(err))

	// the stale response was discarded, the fresh render stands
	assert.Equal(t, []interface{}{"fresh"}, rs.all())

	// and the straggler did not wedge the controller
	assert.False(t, c.Busy())
}

func TestController_failuresReported(t *testing.T) {
	var reported []*Error
	c := NewController(ControllerOptions{
		Fetch: func(ctx context.Context) (interface{}, error) {
			return nil, &Error{Kind: KindServer, Op: "GET /api/rankings", Status: 500}
		},
		Render:  func(interface{}) { t.Fatal("must not render on failure") },
		OnError: func(e *Error) { reported = append(reported, e) },
	})

	err := c.Refresh(context.Background())
	require.Error(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, KindServer, reported[0].Kind)
	assert.True(t, reported[0].Retryable())
	assert.False(t, c.Busy())
}

func TestController_cancellationSuppressed(t *testing.T) {
	bf := newBlockingFetch()
	c := NewController(ControllerOptions{
		Fetch:   bf.fetch,
		Render:  func(interface{}) { t.Fatal("must not render") },
		OnError: func(e *Error) { t.Fatalf("cancellation must not be user-visible, got %v", e) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Refresh(ctx) }()
	<-bf.started
	cancel()

	err := <-done
	assert.Equal(t, KindCancelled, KindOf(err))
}

func TestController_runSkipsWhileOffline(t *testing.T) {
	bf := newBlockingFetch()
	online := false
	var mu sync.Mutex
	c := NewController(ControllerOptions{
		Fetch:    bf.fetch,
		Render:   func(interface{}) {},
		Interval: 10 * time.Millisecond,
		Online: func() bool {
			mu.Lock()
			defer mu.Unlock()
			return online
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		c.Run(ctx, nil)
	}()

	// the initial refresh always runs; release it
	<-bf.started
	bf.release <- "initial"

	// several poll ticks pass offline: no further fetch starts
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, bf.callCount())

	// back online, the next tick refreshes
	mu.Lock()
	online = true
	mu.Unlock()
	select {
	case <-bf.started:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never fired after coming online")
	}
	bf.release <- "polled"

	cancel()
	<-stopped
}

func TestController_runOnlineEventTriggersRefresh(t *testing.T) {
	bf := newBlockingFetch()
	c := NewController(ControllerOptions{
		Fetch:    bf.fetch,
		Render:   func(interface{}) {},
		Interval: time.Hour, // polls out of the picture
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		c.Run(ctx, events)
	}()

	<-bf.started
	bf.release <- "initial"

	events <- struct{}{}
	select {
	case <-bf.started:
	case <-time.After(2 * onlineSettleDelay):
		t.Fatal("online event never triggered a refresh")
	}
	bf.release <- "reconnected"

	assert.Equal(t, 2, bf.callCount())

	cancel()
	<-stopped
}

func TestController_logoutAlwaysClears(t *testing.T) {
	store := &memSessionStore{session: &Session{UserType: "student", User: User{ID: "STU001"}}}

	var navigated string
	serverCalled := false
	c := NewController(ControllerOptions{
		Fetch:  func(context.Context) (interface{}, error) { return nil, nil },
		Render: func(interface{}) {},
		ServerLogout: func(ctx context.Context) error {
			serverCalled = true
			return &Error{Kind: KindNetwork, Op: "POST /api/logout", Err: errors.New("dial refused")}
		},
		Store:    store,
		Navigate: func(target string) { navigated = target },
	})

	c.Logout(context.Background())

	// the server call failed; local logout completed anyway
	assert.True(t, serverCalled)
	assert.True(t, store.cleared)
	assert.Nil(t, store.session)
	assert.Equal(t, "login", navigated)
}

func TestController_logoutCancelsInFlight(t *testing.T) {
	bf := newBlockingFetch()
	store := &memSessionStore{session: &Session{UserType: "student", User: User{ID: "STU001"}}}
	c := NewController(ControllerOptions{
		Fetch:  bf.fetch,
		Render: func(interface{}) { t.Fatal("must not render") },
		Store:  store,
	})

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-bf.started

	c.Logout(context.Background())

	select {
	case <-bf.ctx(0).Done():
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight refresh was not cancelled by logout")
	}
	err := <-done
	assert.Equal(t, KindCancelled, KindOf(err))
	assert.True(t, store.cleared)
}
