package stubserver

import (
	"strings"
	"sync"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	errNotFound       = errors.New("not found")
	errConflict       = errors.New("already exists")
	errParentInactive = errors.New("parent inactive")
)

// inventoryRepo is the in-memory franchise tree. It enforces the same rules
// as the production service: unique names (case-insensitive) within a
// collection, ids assigned on create, and no creation under an inactive
// parent.
type inventoryRepo struct {
	mu   sync.RWMutex
	list []*franchises.Franchise // insertion order
	byID map[string]*franchises.Franchise
}

func newInventoryRepo() *inventoryRepo {
	return &inventoryRepo{byID: make(map[string]*franchises.Franchise)}
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (r *inventoryRepo) summaries() []franchises.Franchise {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]franchises.Franchise, 0, len(r.list))
	for _, f := range r.list {
		shallow := *f
		shallow.Branches = nil
		out = append(out, shallow)
	}
	return out
}

func (r *inventoryRepo) get(id string) (franchises.Franchise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return franchises.Franchise{}, errNotFound
	}
	return cloneFranchise(*f), nil
}

func cloneFranchise(f franchises.Franchise) franchises.Franchise {
	branches := make([]franchises.Branch, len(f.Branches))
	for i, b := range f.Branches {
		products := make([]franchises.Product, len(b.Products))
		copy(products, b.Products)
		b.Products = products
		branches[i] = b
	}
	f.Branches = branches
	return f
}

func (r *inventoryRepo) createFranchise(name string, active bool) (franchises.Franchise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.list {
		if sameName(f.Name, name) {
			return franchises.Franchise{}, errConflict
		}
	}
	f := &franchises.Franchise{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(name),
		Active:   active,
		Branches: []franchises.Branch{},
	}
	r.list = append(r.list, f)
	r.byID[f.ID] = f
	return cloneFranchise(*f), nil
}

func (r *inventoryRepo) renameFranchise(id, name string) (franchises.Franchise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return franchises.Franchise{}, errNotFound
	}
	for _, other := range r.list {
		if other.ID != id && sameName(other.Name, name) {
			return franchises.Franchise{}, errConflict
		}
	}
	f.Name = strings.TrimSpace(name)
	return cloneFranchise(*f), nil
}

func (r *inventoryRepo) setFranchiseStatus(id string, active bool) (franchises.Franchise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return franchises.Franchise{}, errNotFound
	}
	f.Active = active
	return cloneFranchise(*f), nil
}

func (r *inventoryRepo) deleteFranchise(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errNotFound
	}
	delete(r.byID, id)
	filtered := r.list[:0]
	for _, f := range r.list {
		if f.ID != id {
			filtered = append(filtered, f)
		}
	}
	r.list = filtered
	return nil
}

func (r *inventoryRepo) addBranch(franchiseID, name string, active bool) (franchises.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return franchises.Branch{}, errNotFound
	}
	if !f.Active {
		return franchises.Branch{}, errParentInactive
	}
	for _, b := range f.Branches {
		if sameName(b.Name, name) {
			return franchises.Branch{}, errConflict
		}
	}
	branch := franchises.Branch{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(name),
		Active:   active,
		Products: []franchises.Product{},
	}
	f.Branches = append(f.Branches, branch)
	return branch, nil
}

func (r *inventoryRepo) findBranch(f *franchises.Franchise, branchID string) (*franchises.Branch, error) {
	for i := range f.Branches {
		if f.Branches[i].ID == branchID {
			return &f.Branches[i], nil
		}
	}
	return nil, errNotFound
}

func (r *inventoryRepo) renameBranch(franchiseID, branchID, name string) (franchises.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return franchises.Branch{}, errNotFound
	}
	for _, other := range f.Branches {
		if other.ID != branchID && sameName(other.Name, name) {
			return franchises.Branch{}, errConflict
		}
	}
	branch, err := r.findBranch(f, branchID)
	if err != nil {
		return franchises.Branch{}, err
	}
	branch.Name = strings.TrimSpace(name)
	return *branch, nil
}

func (r *inventoryRepo) setBranchStatus(franchiseID, branchID string, active bool) (franchises.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return franchises.Branch{}, errNotFound
	}
	branch, err := r.findBranch(f, branchID)
	if err != nil {
		return franchises.Branch{}, err
	}
	branch.Active = active
	return *branch, nil
}

func (r *inventoryRepo) deleteBranch(franchiseID, branchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return errNotFound
	}
	for i := range f.Branches {
		if f.Branches[i].ID == branchID {
			f.Branches = append(f.Branches[:i], f.Branches[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *inventoryRepo) addProduct(franchiseID, branchID, name string, stock int) (franchises.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return franchises.Product{}, errNotFound
	}
	branch, err := r.findBranch(f, branchID)
	if err != nil {
		return franchises.Product{}, err
	}
	if !branch.Active {
		return franchises.Product{}, errParentInactive
	}
	for _, p := range branch.Products {
		if sameName(p.Name, name) {
			return franchises.Product{}, errConflict
		}
	}
	product := franchises.Product{
		ID:    uuid.New().String(),
		Name:  strings.TrimSpace(name),
		Stock: stock,
	}
	branch.Products = append(branch.Products, product)
	return product, nil
}

func (r *inventoryRepo) renameProduct(franchiseID, branchID, productID, name string) (franchises.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return franchises.Product{}, errNotFound
	}
	branch, err := r.findBranch(f, branchID)
	if err != nil {
		return franchises.Product{}, err
	}
	for i := range branch.Products {
		if branch.Products[i].ID != productID {
			continue
		}
		// renaming to the product's own name (any casing) is a no-op
		if !sameName(branch.Products[i].Name, name) {
			for _, other := range branch.Products {
				if other.ID != productID && sameName(other.Name, name) {
					return franchises.Product{}, errConflict
				}
			}
			branch.Products[i].Name = strings.TrimSpace(name)
		}
		return branch.Products[i], nil
	}
	return franchises.Product{}, errNotFound
}

func (r *inventoryRepo) updateProduct(franchiseID, branchID, productID string, update func(*franchises.Product)) (franchises.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return franchises.Product{}, errNotFound
	}
	branch, err := r.findBranch(f, branchID)
	if err != nil {
		return franchises.Product{}, err
	}
	for i := range branch.Products {
		if branch.Products[i].ID == productID {
			update(&branch.Products[i])
			return branch.Products[i], nil
		}
	}
	return franchises.Product{}, errNotFound
}

func (r *inventoryRepo) deleteProduct(franchiseID, branchID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return errNotFound
	}
	branch, err := r.findBranch(f, branchID)
	if err != nil {
		return err
	}
	for i := range branch.Products {
		if branch.Products[i].ID == productID {
			branch.Products = append(branch.Products[:i], branch.Products[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

// topProducts resolves the highest-stock product per active branch, ties
// broken by first occurrence.
func (r *inventoryRepo) topProducts(franchiseID string) ([]franchises.TopProductPerBranch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[franchiseID]
	if !ok {
		return nil, errNotFound
	}

	entries := make([]franchises.TopProductPerBranch, 0, len(f.Branches))
	for _, b := range f.Branches {
		if !b.Active || len(b.Products) == 0 {
			continue
		}
		top := b.Products[0]
		for _, p := range b.Products[1:] {
			if p.Stock > top.Stock {
				top = p
			}
		}
		entries = append(entries, franchises.TopProductPerBranch{
			BranchID:   b.ID,
			BranchName: b.Name,
			Product:    top,
		})
	}
	return entries, nil
}
