package client

import (
	"context"

	"github.com/pkg/errors"
)

// GateState tracks the one-shot session check a dashboard runs before
// showing anything.
type GateState int

const (
	GateUnchecked GateState = iota
	GateValidating
	GateAuthorized
	GateDenied
)

// authChecker is the slice of Client the gate needs.
type authChecker interface {
	CheckAuth(ctx context.Context, userType, userID string) (bool, User, error)
}

// Gate decides whether a stored session authorizes the requested dashboard.
// Every ambiguous outcome is a denial: denial clears local state and
// navigates to login.
type Gate struct {
	store    SessionStore
	api      authChecker
	navigate func(target string)

	state GateState
}

func NewGate(store SessionStore, api authChecker, navigate func(target string)) *Gate {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Gate{store: store, api: api, navigate: navigate}
}

func (g *Gate) State() GateState { return g.state }

// Check runs the gate once for the given role. On success it returns the
// authorized session; on any failure it has already cleared local storage
// and navigated to login.
func (g *Gate) Check(ctx context.Context, role string) (Session, error) {
	g.state = GateValidating

	s, err := g.store.Load()
	if err != nil {
		return g.deny(errors.Wrap(err, "loading session"))
	}
	// structural failure or a session for the wrong dashboard: no network
	// call is made
	if !s.Valid() || s.UserType != role {
		return g.deny(errors.New("stored session is not valid for this dashboard"))
	}

	ok, _, err := g.api.CheckAuth(ctx, s.UserType, s.User.ID)
	if err != nil {
		return g.deny(errors.Wrap(err, "remote session check"))
	}
	if !ok {
		return g.deny(errors.New("session expired"))
	}

	g.state = GateAuthorized
	return s, nil
}

func (g *Gate) deny(cause error) (Session, error) {
	g.state = GateDenied
	_ = g.store.Clear()
	g.navigate("login")
	return Session{}, &Error{Kind: KindAuthDenied, Op: "session gate", Err: cause}
}
