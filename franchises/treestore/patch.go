package treestore

import "github.com/cfcastillo/go-franchise-client/franchises"

// path names a node inside the open subtree: a branch when productID is
// empty, otherwise a product inside that branch.
type path struct {
	franchiseID string
	branchID    string
	productID   string
}

type intent int

const (
	intentUpsert intent = iota
	intentRemove
)

// apply is the single replace-node-by-id-path operation every branch and
// product patch goes through. It rebuilds the franchise value and the slice
// spine down to the target, sharing everything off the path. Reports false
// when the named franchise is not the open detail; a late response for a
// closed view is simply dropped.
func (s *Store) apply(p path, in intent, node any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detail == nil || s.detail.ID != p.franchiseID {
		return false
	}

	next := *s.detail
	if p.productID == "" {
		next.Branches = patchBranches(next.Branches, p, in, node)
	} else {
		next.Branches = patchProducts(next.Branches, p, in, node)
	}
	s.detail = &next
	return true
}

func patchBranches(branches []franchises.Branch, p path, in intent, node any) []franchises.Branch {
	if in == intentRemove {
		return remove(branches, func(b franchises.Branch) bool { return b.ID == p.branchID })
	}
	branch := node.(franchises.Branch)
	return upsert(branches, branch, func(b franchises.Branch) bool { return b.ID == p.branchID })
}

func patchProducts(branches []franchises.Branch, p path, in intent, node any) []franchises.Branch {
	patched := make([]franchises.Branch, len(branches))
	copy(patched, branches)
	for i, b := range patched {
		if b.ID != p.branchID {
			continue
		}
		if in == intentRemove {
			b.Products = remove(b.Products, func(pr franchises.Product) bool { return pr.ID == p.productID })
		} else {
			product := node.(franchises.Product)
			b.Products = upsert(b.Products, product, func(pr franchises.Product) bool { return pr.ID == p.productID })
		}
		patched[i] = b
		break
	}
	return patched
}

// upsert replaces the first element matching the predicate, preserving
// sibling order, or prepends the element when nothing matches.
func upsert[T any](items []T, item T, match func(T) bool) []T {
	for i := range items {
		if match(items[i]) {
			replaced := make([]T, len(items))
			copy(replaced, items)
			replaced[i] = item
			return replaced
		}
	}
	prepended := make([]T, 0, len(items)+1)
	prepended = append(prepended, item)
	return append(prepended, items...)
}

// remove filters out every element matching the predicate. Removing an
// absent id returns an equivalent list.
func remove[T any](items []T, match func(T) bool) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
