// Package treestore holds the client's in-memory view of the franchise tree:
// the shallow summary list, at most one checked-out franchise detail subtree,
// and the top-product aggregate for that detail.
//
// All mutations are patch-style: the affected node and its ancestors are
// rebuilt (copy-on-write up the id path) while untouched siblings are carried
// over unchanged. Nothing is ever mutated in place, so snapshots handed out
// earlier never observe later changes.
package treestore

import (
	"sync"

	"github.com/cfcastillo/go-franchise-client/franchises"
)

// Store is the single owner of the entity tree. Reads return snapshots.
type Store struct {
	mu        sync.RWMutex
	summaries []franchises.Franchise
	detail    *franchises.Franchise
	top       []franchises.TopProductPerBranch
}

func New() *Store {
	return &Store{}
}

// Summaries returns the current shallow franchise list.
func (s *Store) Summaries() []franchises.Franchise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries
}

// SetSummaries replaces the summary list wholesale, dropping branch subtrees
// so the list stays shallow.
func (s *Store) SetSummaries(list []franchises.Franchise) {
	shallow := make([]franchises.Franchise, len(list))
	for i, f := range list {
		f.Branches = nil
		shallow[i] = f
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = shallow
}

// UpsertSummary replaces the summary with a matching id, or prepends the
// franchise when it is new.
func (s *Store) UpsertSummary(f franchises.Franchise) {
	f.Branches = nil
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = upsert(s.summaries, f, func(existing franchises.Franchise) bool {
		return existing.ID == f.ID
	})
}

// RemoveSummary filters the summary with the given id out of the list.
// Removing an absent id is a no-op.
func (s *Store) RemoveSummary(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = remove(s.summaries, func(f franchises.Franchise) bool {
		return f.ID == id
	})
}

// Detail returns the checked-out franchise subtree, if one is open.
func (s *Store) Detail() (franchises.Franchise, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.detail == nil {
		return franchises.Franchise{}, false
	}
	return *s.detail, true
}

// OpenDetail checks out a franchise subtree, replacing any previous one. Only
// one detail is held at a time.
func (s *Store) OpenDetail(f franchises.Franchise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = &f
}

// CloseDetail drops the checked-out subtree and its aggregate.
func (s *Store) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = nil
	s.top = nil
}

// ReplaceDetail swaps the open subtree when the id matches. Late responses
// for a franchise that is no longer open are discarded.
func (s *Store) ReplaceDetail(f franchises.Franchise) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil || s.detail.ID != f.ID {
		return false
	}
	s.detail = &f
	return true
}

// MergeDetail applies a franchise-level update to the open subtree: name and
// status are taken from f, and the existing branch sequence is kept when the
// update carries none. Reports false when f is not the open franchise.
func (s *Store) MergeDetail(f franchises.Franchise) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil || s.detail.ID != f.ID {
		return false
	}
	next := f
	if next.Branches == nil {
		next.Branches = s.detail.Branches
	}
	s.detail = &next
	return true
}

// UpsertBranch applies a branch create or update to the open subtree.
// Reports false when the named franchise is not the open one.
func (s *Store) UpsertBranch(franchiseID string, b franchises.Branch) bool {
	return s.apply(path{franchiseID: franchiseID, branchID: b.ID}, intentUpsert, b)
}

// RemoveBranch filters a branch out of the open subtree. Idempotent.
func (s *Store) RemoveBranch(franchiseID, branchID string) bool {
	return s.apply(path{franchiseID: franchiseID, branchID: branchID}, intentRemove, nil)
}

// UpsertProduct applies a product create or update inside the named branch.
func (s *Store) UpsertProduct(franchiseID, branchID string, p franchises.Product) bool {
	return s.apply(path{franchiseID: franchiseID, branchID: branchID, productID: p.ID}, intentUpsert, p)
}

// RemoveProduct filters a product out of the named branch. Idempotent.
func (s *Store) RemoveProduct(franchiseID, branchID, productID string) bool {
	return s.apply(path{franchiseID: franchiseID, branchID: branchID, productID: productID}, intentRemove, nil)
}

// TopProducts returns the current aggregate snapshot.
func (s *Store) TopProducts() []franchises.TopProductPerBranch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.top
}

// SetTopProducts replaces the aggregate wholesale.
func (s *Store) SetTopProducts(entries []franchises.TopProductPerBranch) {
	snapshot := make([]franchises.TopProductPerBranch, len(entries))
	copy(snapshot, entries)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.top = snapshot
}

// ClearTopProducts empties the aggregate without fetching a replacement.
func (s *Store) ClearTopProducts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.top = nil
}
