package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core/account"
)

// ErrNoSession means no structurally valid session is stored locally.
var ErrNoSession = errors.New("no stored session")

type (
	// User is the identity slice of the session payload the dashboard keeps.
	User struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Session is the locally persisted login record, the localStorage
	// "currentSession" analog. Token rides along so a later run can still
	// revoke the server-side session on logout.
	Session struct {
		UserType string `json:"userType"`
		User     User   `json:"user"`
		Token    string `json:"token,omitempty"`
	}

	// SessionStore persists the session between dashboard runs.
	SessionStore interface {
		Load() (Session, error)
		Save(Session) error
		Clear() error
	}
)

// Valid reports structural validity: a known role and a user id.
func (s Session) Valid() bool {
	return account.ValidRole(s.UserType) && s.User.ID != ""
}

// fileSessionStore keeps the session as a JSON file under dir.
type fileSessionStore struct {
	mu   sync.Mutex
	path string
}

const sessionFile = "session.json"

func NewFileSessionStore(dir string) SessionStore {
	return &fileSessionStore{path: filepath.Join(dir, sessionFile)}
}

func (fs *fileSessionStore) Load() (Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, errors.Wrap(err, "reading session file")
	}

	var s Session
	// a corrupt session record reads as absent, the gate fails closed on it
	if err = json.Unmarshal(data, &s); err != nil {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (fs *fileSessionStore) Save(s Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err = os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(os.WriteFile(fs.path, data, 0o600), "writing session file")
}

func (fs *fileSessionStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
