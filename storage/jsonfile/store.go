// Package jsonfilestore persists records as pretty-printed JSON arrays, one
// file per collection, matching the original deployment's data layout.
//
// Writes rewrite the whole file under an in-process mutex; across processes
// the last writer wins, which is the store's documented (lack of) guarantee.
package jsonfilestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
)

const (
	studentsFile = "studentsMarks.json"
	teachersFile = "teacherData.json"
	accountsFile = "accounts.json"
)

type Store struct {
	mu      sync.Mutex
	dataDir string
}

func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dataDir, file)
}

// readAll decodes a whole collection file into dst. A missing file reads as
// an empty collection; a corrupt file is a data integrity error, never
// silently coerced.
func (s *Store) readAll(file string, dst interface{}) error {
	data, err := os.ReadFile(s.path(file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", file)
	}
	if err = json.Unmarshal(data, dst); err != nil {
		return core.NewDataIntegrityError(errors.Wrapf(err, "parsing %s", file))
	}
	return nil
}

// writeAll rewrites a collection file via a temp file + rename so a crashed
// write never leaves a half-written collection behind.
func (s *Store) writeAll(file string, src interface{}) error {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", file)
	}

	tmp, err := os.CreateTemp(s.dataDir, file+".*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for %s", file)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", file)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", file)
	}
	if err = os.Rename(tmp.Name(), s.path(file)); err != nil {
		return errors.Wrapf(err, "replacing %s", file)
	}
	return nil
}
