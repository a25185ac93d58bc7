// Package filestore is the durable CredentialStore: one JSON record under a
// fixed file name, surviving process restarts.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cfcastillo/go-franchise-client/session"
	"github.com/pkg/errors"
)

// recordName is the fixed storage key for the session record.
const recordName = "franchise-auth.json"

type Store struct {
	path string
}

// New creates a Store under dataFolder, creating the folder when missing.
func New(dataFolder string) (*Store, error) {
	if dataFolder == "" {
		return nil, errors.New("[filestore.New] data folder is required")
	}
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] create data folder")
	}
	return &Store{path: filepath.Join(dataFolder, recordName)}, nil
}

var _ session.CredentialStore = (*Store)(nil)

func (s *Store) Save(sess session.Session) error {
	encoded, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "[Store.Save] marshal session")
	}
	if err := os.WriteFile(s.path, encoded, 0o600); err != nil {
		return errors.Wrap(err, "[Store.Save] write session record")
	}
	return nil
}

func (s *Store) Load() (session.Session, bool, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return session.Session{}, false, nil
	}
	if err != nil {
		return session.Session{}, false, errors.Wrap(err, "[Store.Load] read session record")
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return session.Session{}, false, errors.Wrap(err, "[Store.Load] malformed session record")
	}
	return sess, true, nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Store.Clear] remove session record")
	}
	return nil
}
