// Package sessionstore tracks live dashboard sessions so check-auth can fail
// closed and logout can revoke server-side.
package sessionstore

import (
	"context"
	"sync"

	"github.com/gradeboard/gradeboard/core/account"
)

type inMemRegistry struct {
	mutex  sync.RWMutex
	byID   map[string]account.Session
	byUser map[string]string // role+userID -> session ID
}

// NewInMemRegistry is the default single-process registry.
func NewInMemRegistry() account.SessionRegistry {
	return &inMemRegistry{
		byID:   make(map[string]account.Session),
		byUser: make(map[string]string),
	}
}

func userKey(role, userID string) string {
	return role + ":" + userID
}

func (reg *inMemRegistry) Put(_ context.Context, s account.Session) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	reg.byID[s.ID] = s
	reg.byUser[userKey(s.Role, s.UserID)] = s.ID
	return nil
}

func (reg *inMemRegistry) Get(_ context.Context, id string) (account.Session, error) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	if s, ok := reg.byID[id]; ok {
		return s, nil
	}
	return account.Session{}, account.ErrSessionGone
}

func (reg *inMemRegistry) FindByUser(_ context.Context, role, userID string) (account.Session, error) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	if id, ok := reg.byUser[userKey(role, userID)]; ok {
		if s, ok := reg.byID[id]; ok {
			return s, nil
		}
	}
	return account.Session{}, account.ErrSessionGone
}

func (reg *inMemRegistry) Delete(_ context.Context, id string) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	s, ok := reg.byID[id]
	if !ok {
		return account.ErrSessionGone
	}
	delete(reg.byID, id)
	delete(reg.byUser, userKey(s.Role, s.UserID))
	return nil
}

func (reg *inMemRegistry) DeleteByUser(_ context.Context, role, userID string) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	id, ok := reg.byUser[userKey(role, userID)]
	if !ok {
		return account.ErrSessionGone
	}
	delete(reg.byID, id)
	delete(reg.byUser, userKey(role, userID))
	return nil
}
