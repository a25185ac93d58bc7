// Package reconcile applies the outcome of remote mutations to the entity
// tree store. Every mutation runs gate → remote call → apply → aggregate
// policy; a failure leaves the store untouched and surfaces the service's
// message verbatim. Nothing is retried and nothing is applied optimistically.
package reconcile

import (
	"context"
	"sync"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/cfcastillo/go-franchise-client/franchises/treestore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// InventoryAPI is the slice of the remote service the coordinator consumes.
type InventoryAPI interface {
	Franchises(ctx context.Context) ([]franchises.Franchise, error)
	Franchise(ctx context.Context, id string) (*franchises.Franchise, error)
	CreateFranchise(ctx context.Context, name string) (*franchises.Franchise, error)
	RenameFranchise(ctx context.Context, id, name string) (*franchises.Franchise, error)
	SetFranchiseStatus(ctx context.Context, id string, active bool) (*franchises.Franchise, error)
	DeleteFranchise(ctx context.Context, id string) error
	CreateBranch(ctx context.Context, franchiseID, name string, active bool) (*franchises.Branch, error)
	RenameBranch(ctx context.Context, franchiseID, branchID, name string) (*franchises.Branch, error)
	SetBranchStatus(ctx context.Context, franchiseID, branchID string, active bool) (*franchises.Branch, error)
	DeleteBranch(ctx context.Context, franchiseID, branchID string) error
	CreateProduct(ctx context.Context, franchiseID, branchID, name string, stock int) (*franchises.Product, error)
	RenameProduct(ctx context.Context, franchiseID, branchID, productID, name string) (*franchises.Product, error)
	UpdateProductStock(ctx context.Context, franchiseID, branchID, productID string, stock int) (*franchises.Product, error)
	DeleteProduct(ctx context.Context, franchiseID, branchID, productID string) error
	TopProducts(ctx context.Context, franchiseID string) ([]franchises.TopProductPerBranch, error)
}

// RoleSource supplies the acting user's roles for the gating policy. The
// session engine implements it.
type RoleSource interface {
	Roles() []string
}

// Coordinator issues mutations against the service and reconciles their
// outcomes into the tree store.
type Coordinator struct {
	store *treestore.Store
	api   InventoryAPI
	roles RoleSource
	log   zerolog.Logger

	mu   sync.Mutex
	last *Mutation
}

// CoordinatorOption modifies a Coordinator instance.
type CoordinatorOption func(*Coordinator)

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = log
	}
}

func New(store *treestore.Store, inventoryAPI InventoryAPI, roles RoleSource, options ...CoordinatorOption) (*Coordinator, error) {
	if store == nil {
		return nil, errors.New("[reconcile.New] store is required")
	}
	if inventoryAPI == nil {
		return nil, errors.New("[reconcile.New] inventory API is required")
	}
	if roles == nil {
		return nil, errors.New("[reconcile.New] role source is required")
	}

	coordinator := &Coordinator{
		store: store,
		api:   inventoryAPI,
		roles: roles,
		log:   zerolog.Nop(),
	}

	for _, opt := range options {
		opt(coordinator)
	}

	return coordinator, nil
}

// LastMutation returns the most recently issued mutation, nil before any.
func (c *Coordinator) LastMutation() *Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// run drives one mutation through its lifecycle. Gate rejections never leave
// Idle and never reach the transport layer.
func (c *Coordinator) run(op string, gate func() error, call func() error) error {
	if gate != nil {
		if err := gate(); err != nil {
			c.log.Debug().Str("op", op).Err(err).Msg("mutation rejected by gating policy")
			return err
		}
	}

	m := newMutation(op)
	c.mu.Lock()
	c.last = m
	c.mu.Unlock()

	m.begin()
	if err := call(); err != nil {
		m.failed(err)
		c.log.Debug().Str("op", op).Err(err).Msg("mutation failed")
		return err
	}
	m.applied()
	return nil
}

func (c *Coordinator) gateMutation() error {
	if !franchises.CanMutate(c.roles.Roles()) {
		return franchises.NotPermittedErr
	}
	return nil
}

// knownFranchise resolves a franchise from local state: the open detail when
// it matches, otherwise the summary list.
func (c *Coordinator) knownFranchise(id string) (franchises.Franchise, bool) {
	if detail, ok := c.store.Detail(); ok && detail.ID == id {
		return detail, true
	}
	for _, f := range c.store.Summaries() {
		if f.ID == id {
			return f, true
		}
	}
	return franchises.Franchise{}, false
}

func (c *Coordinator) knownBranch(franchiseID, branchID string) (franchises.Branch, bool) {
	detail, ok := c.store.Detail()
	if !ok || detail.ID != franchiseID {
		return franchises.Branch{}, false
	}
	for _, b := range detail.Branches {
		if b.ID == branchID {
			return b, true
		}
	}
	return franchises.Branch{}, false
}

// LoadFranchises refreshes the summary list from the service.
func (c *Coordinator) LoadFranchises(ctx context.Context) ([]franchises.Franchise, error) {
	list, err := c.api.Franchises(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Coordinator.LoadFranchises]")
	}
	c.store.SetSummaries(list)
	return c.store.Summaries(), nil
}

// OpenFranchise checks out one franchise subtree and, when the franchise is
// active, fetches its top-product aggregate.
func (c *Coordinator) OpenFranchise(ctx context.Context, id string) (franchises.Franchise, error) {
	f, err := c.api.Franchise(ctx, id)
	if err != nil {
		return franchises.Franchise{}, errors.Wrap(err, "[Coordinator.OpenFranchise]")
	}
	c.store.OpenDetail(*f)
	c.refreshAggregate(ctx, f.ID)
	detail, _ := c.store.Detail()
	return detail, nil
}

// CloseFranchise drops the checked-out subtree.
func (c *Coordinator) CloseFranchise() {
	c.store.CloseDetail()
}

func (c *Coordinator) CreateFranchise(ctx context.Context, name string) (*franchises.Franchise, error) {
	var created *franchises.Franchise
	err := c.run("create-franchise",
		func() error {
			if err := c.gateMutation(); err != nil {
				return err
			}
			return franchises.ValidateName(name)
		},
		func() error {
			f, err := c.api.CreateFranchise(ctx, franchises.NormalizeName(name))
			if err != nil {
				return err
			}
			created = f
			c.store.UpsertSummary(*f)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Coordinator) RenameFranchise(ctx context.Context, id, name string) (*franchises.Franchise, error) {
	var updated *franchises.Franchise
	err := c.run("rename-franchise",
		func() error {
			if err := c.gateMutation(); err != nil {
				return err
			}
			return franchises.ValidateName(name)
		},
		func() error {
			f, err := c.api.RenameFranchise(ctx, id, franchises.NormalizeName(name))
			if err != nil {
				return err
			}
			updated = f
			c.store.UpsertSummary(*f)
			c.store.MergeDetail(*f)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetFranchiseStatus toggles a franchise. Deactivation clears the aggregate
// without fetching; activation triggers a fresh fetch.
func (c *Coordinator) SetFranchiseStatus(ctx context.Context, id string, active bool) (*franchises.Franchise, error) {
	var updated *franchises.Franchise
	err := c.run("set-franchise-status",
		c.gateMutation,
		func() error {
			f, err := c.api.SetFranchiseStatus(ctx, id, active)
			if err != nil {
				return err
			}
			updated = f
			c.store.UpsertSummary(*f)
			c.store.MergeDetail(*f)
			if f.Active {
				c.refreshAggregate(ctx, f.ID)
			} else {
				c.store.ClearTopProducts()
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteFranchise removes a franchise and everything under it. Local removal
// is idempotent, so a second confirmation of the same delete is safe.
func (c *Coordinator) DeleteFranchise(ctx context.Context, id string) error {
	return c.run("delete-franchise",
		c.gateMutation,
		func() error {
			if err := c.api.DeleteFranchise(ctx, id); err != nil {
				return err
			}
			c.store.RemoveSummary(id)
			if detail, ok := c.store.Detail(); ok && detail.ID == id {
				c.store.CloseDetail()
			}
			return nil
		})
}

// CreateBranch creates a branch under an active franchise. An inactive
// franchise fails fast with ParentInactiveErr, before any request is sent.
func (c *Coordinator) CreateBranch(ctx context.Context, franchiseID, name string, active bool) (*franchises.Branch, error) {
	var created *franchises.Branch
	err := c.run("create-branch",
		func() error {
			parent, known := c.knownFranchise(franchiseID)
			if known {
				if err := franchises.GateBranchCreation(c.roles.Roles(), parent); err != nil {
					return err
				}
			} else if err := c.gateMutation(); err != nil {
				return err
			}
			return franchises.ValidateName(name)
		},
		func() error {
			b, err := c.api.CreateBranch(ctx, franchiseID, franchises.NormalizeName(name), active)
			if err != nil {
				return err
			}
			created = b
			c.store.UpsertBranch(franchiseID, *b)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Coordinator) RenameBranch(ctx context.Context, franchiseID, branchID, name string) (*franchises.Branch, error) {
	var updated *franchises.Branch
	err := c.run("rename-branch",
		func() error {
			if err := c.gateMutation(); err != nil {
				return err
			}
			return franchises.ValidateName(name)
		},
		func() error {
			b, err := c.api.RenameBranch(ctx, franchiseID, branchID, franchises.NormalizeName(name))
			if err != nil {
				return err
			}
			updated = b
			c.store.UpsertBranch(franchiseID, *b)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Coordinator) SetBranchStatus(ctx context.Context, franchiseID, branchID string, active bool) (*franchises.Branch, error) {
	var updated *franchises.Branch
	err := c.run("set-branch-status",
		c.gateMutation,
		func() error {
			b, err := c.api.SetBranchStatus(ctx, franchiseID, branchID, active)
			if err != nil {
				return err
			}
			updated = b
			c.store.UpsertBranch(franchiseID, *b)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBranch removes a branch. Local removal is idempotent.
func (c *Coordinator) DeleteBranch(ctx context.Context, franchiseID, branchID string) error {
	return c.run("delete-branch",
		c.gateMutation,
		func() error {
			if err := c.api.DeleteBranch(ctx, franchiseID, branchID); err != nil {
				return err
			}
			c.store.RemoveBranch(franchiseID, branchID)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
}

// CreateProduct creates a product under an active branch. An inactive branch
// fails fast with ParentInactiveErr, before any request is sent.
func (c *Coordinator) CreateProduct(ctx context.Context, franchiseID, branchID, name string, stock int) (*franchises.Product, error) {
	var created *franchises.Product
	err := c.run("create-product",
		func() error {
			if parent, known := c.knownBranch(franchiseID, branchID); known {
				if err := franchises.GateProductCreation(parent); err != nil {
					return err
				}
			}
			if err := franchises.ValidateName(name); err != nil {
				return err
			}
			return franchises.ValidateStock(stock)
		},
		func() error {
			p, err := c.api.CreateProduct(ctx, franchiseID, branchID, franchises.NormalizeName(name), stock)
			if err != nil {
				return err
			}
			created = p
			c.store.UpsertProduct(franchiseID, branchID, *p)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Coordinator) RenameProduct(ctx context.Context, franchiseID, branchID, productID, name string) (*franchises.Product, error) {
	var updated *franchises.Product
	err := c.run("rename-product",
		func() error { return franchises.ValidateName(name) },
		func() error {
			p, err := c.api.RenameProduct(ctx, franchiseID, branchID, productID, franchises.NormalizeName(name))
			if err != nil {
				return err
			}
			updated = p
			c.store.UpsertProduct(franchiseID, branchID, *p)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Coordinator) UpdateProductStock(ctx context.Context, franchiseID, branchID, productID string, stock int) (*franchises.Product, error) {
	var updated *franchises.Product
	err := c.run("update-product-stock",
		func() error { return franchises.ValidateStock(stock) },
		func() error {
			p, err := c.api.UpdateProductStock(ctx, franchiseID, branchID, productID, stock)
			if err != nil {
				return err
			}
			updated = p
			c.store.UpsertProduct(franchiseID, branchID, *p)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes a product. Local removal is idempotent.
func (c *Coordinator) DeleteProduct(ctx context.Context, franchiseID, branchID, productID string) error {
	return c.run("delete-product",
		nil,
		func() error {
			if err := c.api.DeleteProduct(ctx, franchiseID, branchID, productID); err != nil {
				return err
			}
			c.store.RemoveProduct(franchiseID, branchID, productID)
			c.refreshAggregate(ctx, franchiseID)
			return nil
		})
}

// RefreshTopProducts re-fetches the aggregate for the open franchise.
func (c *Coordinator) RefreshTopProducts(ctx context.Context, franchiseID string) {
	c.refreshAggregate(ctx, franchiseID)
}

// refreshAggregate enforces the aggregate policy: recomputed by a fresh
// remote query after tree changes, cleared without fetching when the open
// franchise is inactive, and left alone when the franchise is not open.
func (c *Coordinator) refreshAggregate(ctx context.Context, franchiseID string) {
	detail, ok := c.store.Detail()
	if !ok || detail.ID != franchiseID {
		return
	}
	if !detail.Active {
		c.store.ClearTopProducts()
		return
	}

	entries, err := c.api.TopProducts(ctx, franchiseID)
	if err != nil {
		c.log.Debug().Err(err).Str("franchise_id", franchiseID).Msg("top products fetch failed")
		c.store.ClearTopProducts()
		return
	}
	c.store.SetTopProducts(entries)
}
