package storefakes

import (
	"sync"

	"github.com/cfcastillo/go-franchise-client/session"
	"github.com/pkg/errors"
)

// FakeCredentialStore is an in-memory CredentialStore for tests. Set
// Malformed to make Load behave like an unparseable record.
type FakeCredentialStore struct {
	mu        sync.Mutex
	stored    *session.Session
	Malformed bool
	SaveErr   error
	Saves     int
	Clears    int
}

func NewFakeCredentialStore() *FakeCredentialStore {
	return &FakeCredentialStore{}
}

var _ session.CredentialStore = (*FakeCredentialStore)(nil)

func (f *FakeCredentialStore) Save(sess session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.stored = &sess
	f.Saves++
	return nil
}

func (f *FakeCredentialStore) Load() (session.Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Malformed {
		return session.Session{}, false, errors.New("malformed session record")
	}
	if f.stored == nil {
		return session.Session{}, false, nil
	}
	return *f.stored, true, nil
}

func (f *FakeCredentialStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = nil
	f.Malformed = false
	f.Clears++
	return nil
}

// Stored returns the persisted record, if any.
func (f *FakeCredentialStore) Stored() (session.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return session.Session{}, false
	}
	return *f.stored, true
}
