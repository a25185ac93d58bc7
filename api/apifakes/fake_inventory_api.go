package apifakes

import (
	"context"
	"sync"

	"github.com/cfcastillo/go-franchise-client/franchises"
)

// FakeInventoryAPI is a programmable stand-in for the franchise CRUD and
// top-products endpoints. Mutations echo back the configured entity; Err (or
// the per-op error) makes every call fail.
type FakeInventoryAPI struct {
	mu sync.Mutex

	Err error

	ListResult   []franchises.Franchise
	DetailResult *franchises.Franchise

	FranchiseResult *franchises.Franchise
	BranchResult    *franchises.Branch
	ProductResult   *franchises.Product

	TopResult []franchises.TopProductPerBranch
	TopErr    error

	TopCalls      int
	MutationCalls int
}

func NewFakeInventoryAPI() *FakeInventoryAPI {
	return &FakeInventoryAPI{}
}

func (f *FakeInventoryAPI) Franchises(ctx context.Context) ([]franchises.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ListResult, nil
}

func (f *FakeInventoryAPI) Franchise(ctx context.Context, id string) (*franchises.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.DetailResult, nil
}

func (f *FakeInventoryAPI) mutateFranchise() (*franchises.Franchise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MutationCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.FranchiseResult, nil
}

func (f *FakeInventoryAPI) mutateBranch() (*franchises.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MutationCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.BranchResult, nil
}

func (f *FakeInventoryAPI) mutateProduct() (*franchises.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MutationCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ProductResult, nil
}

func (f *FakeInventoryAPI) mutateDelete() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MutationCalls++
	return f.Err
}

func (f *FakeInventoryAPI) CreateFranchise(ctx context.Context, name string) (*franchises.Franchise, error) {
	return f.mutateFranchise()
}

func (f *FakeInventoryAPI) RenameFranchise(ctx context.Context, id, name string) (*franchises.Franchise, error) {
	return f.mutateFranchise()
}

func (f *FakeInventoryAPI) SetFranchiseStatus(ctx context.Context, id string, active bool) (*franchises.Franchise, error) {
	return f.mutateFranchise()
}

func (f *FakeInventoryAPI) DeleteFranchise(ctx context.Context, id string) error {
	return f.mutateDelete()
}

func (f *FakeInventoryAPI) CreateBranch(ctx context.Context, franchiseID, name string, active bool) (*franchises.Branch, error) {
	return f.mutateBranch()
}

func (f *FakeInventoryAPI) RenameBranch(ctx context.Context, franchiseID, branchID, name string) (*franchises.Branch, error) {
	return f.mutateBranch()
}

func (f *FakeInventoryAPI) SetBranchStatus(ctx context.Context, franchiseID, branchID string, active bool) (*franchises.Branch, error) {
	return f.mutateBranch()
}

func (f *FakeInventoryAPI) DeleteBranch(ctx context.Context, franchiseID, branchID string) error {
	return f.mutateDelete()
}

func (f *FakeInventoryAPI) CreateProduct(ctx context.Context, franchiseID, branchID, name string, stock int) (*franchises.Product, error) {
	return f.mutateProduct()
}

func (f *FakeInventoryAPI) RenameProduct(ctx context.Context, franchiseID, branchID, productID, name string) (*franchises.Product, error) {
	return f.mutateProduct()
}

func (f *FakeInventoryAPI) UpdateProductStock(ctx context.Context, franchiseID, branchID, productID string, stock int) (*franchises.Product, error) {
	return f.mutateProduct()
}

func (f *FakeInventoryAPI) DeleteProduct(ctx context.Context, franchiseID, branchID, productID string) error {
	return f.mutateDelete()
}

func (f *FakeInventoryAPI) TopProducts(ctx context.Context, franchiseID string) ([]franchises.TopProductPerBranch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TopCalls++
	if f.TopErr != nil {
		return nil, f.TopErr
	}
	return f.TopResult, nil
}
