package api

import (
	"context"
	"net/http"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/pkg/errors"
)

type namePayload struct {
	Name string `json:"name"`
}

type statusPayload struct {
	Active bool `json:"active"`
}

// Franchises returns the shallow franchise summaries.
func (c *Client) Franchises(ctx context.Context) ([]franchises.Franchise, error) {
	var list []franchises.Franchise
	if err := c.do(ctx, http.MethodGet, c.franchisePath(), nil, &list); err != nil {
		return nil, errors.Wrap(err, "[Client.Franchises]")
	}
	return list, nil
}

// Franchise returns one full franchise subtree.
func (c *Client) Franchise(ctx context.Context, id string) (*franchises.Franchise, error) {
	var f franchises.Franchise
	if err := c.do(ctx, http.MethodGet, c.franchisePath(id), nil, &f); err != nil {
		return nil, errors.Wrap(err, "[Client.Franchise]")
	}
	return &f, nil
}

func (c *Client) CreateFranchise(ctx context.Context, name string) (*franchises.Franchise, error) {
	var f franchises.Franchise
	if err := c.do(ctx, http.MethodPost, c.franchisePath(), namePayload{Name: name}, &f); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateFranchise]")
	}
	return &f, nil
}

func (c *Client) RenameFranchise(ctx context.Context, id, name string) (*franchises.Franchise, error) {
	var f franchises.Franchise
	if err := c.do(ctx, http.MethodPatch, c.franchisePath(id), namePayload{Name: name}, &f); err != nil {
		return nil, errors.Wrap(err, "[Client.RenameFranchise]")
	}
	return &f, nil
}

func (c *Client) SetFranchiseStatus(ctx context.Context, id string, active bool) (*franchises.Franchise, error) {
	var f franchises.Franchise
	if err := c.do(ctx, http.MethodPatch, c.franchisePath(id, "status"), statusPayload{Active: active}, &f); err != nil {
		return nil, errors.Wrap(err, "[Client.SetFranchiseStatus]")
	}
	return &f, nil
}

func (c *Client) DeleteFranchise(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.franchisePath(id), nil, nil); err != nil {
		return errors.Wrap(err, "[Client.DeleteFranchise]")
	}
	return nil
}

func (c *Client) CreateBranch(ctx context.Context, franchiseID, name string, active bool) (*franchises.Branch, error) {
	body := struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}{Name: name, Active: active}

	var b franchises.Branch
	if err := c.do(ctx, http.MethodPost, c.franchisePath(franchiseID, "branches"), body, &b); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateBranch]")
	}
	return &b, nil
}

func (c *Client) RenameBranch(ctx context.Context, franchiseID, branchID, name string) (*franchises.Branch, error) {
	var b franchises.Branch
	if err := c.do(ctx, http.MethodPatch, c.franchisePath(franchiseID, "branches", branchID), namePayload{Name: name}, &b); err != nil {
		return nil, errors.Wrap(err, "[Client.RenameBranch]")
	}
	return &b, nil
}

func (c *Client) SetBranchStatus(ctx context.Context, franchiseID, branchID string, active bool) (*franchises.Branch, error) {
	var b franchises.Branch
	if err := c.do(ctx, http.MethodPatch, c.franchisePath(franchiseID, "branches", branchID, "status"), statusPayload{Active: active}, &b); err != nil {
		return nil, errors.Wrap(err, "[Client.SetBranchStatus]")
	}
	return &b, nil
}

func (c *Client) DeleteBranch(ctx context.Context, franchiseID, branchID string) error {
	if err := c.do(ctx, http.MethodDelete, c.franchisePath(franchiseID, "branches", branchID), nil, nil); err != nil {
		return errors.Wrap(err, "[Client.DeleteBranch]")
	}
	return nil
}

func (c *Client) CreateProduct(ctx context.Context, franchiseID, branchID, name string, stock int) (*franchises.Product, error) {
	body := struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}{Name: name, Stock: stock}

	var p franchises.Product
	if err := c.do(ctx, http.MethodPost, c.franchisePath(franchiseID, "branches", branchID, "products"), body, &p); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateProduct]")
	}
	return &p, nil
}

func (c *Client) RenameProduct(ctx context.Context, franchiseID, branchID, productID, name string) (*franchises.Product, error) {
	var p franchises.Product
	if err := c.do(ctx, http.MethodPatch, c.franchisePath(franchiseID, "branches", branchID, "products", productID), namePayload{Name: name}, &p); err != nil {
		return nil, errors.Wrap(err, "[Client.RenameProduct]")
	}
	return &p, nil
}

func (c *Client) UpdateProductStock(ctx context.Context, franchiseID, branchID, productID string, stock int) (*franchises.Product, error) {
	body := struct {
		Stock int `json:"stock"`
	}{Stock: stock}

	var p franchises.Product
	if err := c.do(ctx, http.MethodPatch, c.franchisePath(franchiseID, "branches", branchID, "products", productID, "stock"), body, &p); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProductStock]")
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, franchiseID, branchID, productID string) error {
	if err := c.do(ctx, http.MethodDelete, c.franchisePath(franchiseID, "branches", branchID, "products", productID), nil, nil); err != nil {
		return errors.Wrap(err, "[Client.DeleteProduct]")
	}
	return nil
}

// TopProducts returns the highest-stock product per active branch of a
// franchise. Always fetched fresh; never derived locally.
func (c *Client) TopProducts(ctx context.Context, franchiseID string) ([]franchises.TopProductPerBranch, error) {
	var entries []franchises.TopProductPerBranch
	if err := c.do(ctx, http.MethodGet, c.franchisePath(franchiseID, "branches", "top-products"), nil, &entries); err != nil {
		return nil, errors.Wrap(err, "[Client.TopProducts]")
	}
	return entries, nil
}
