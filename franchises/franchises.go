package franchises

import (
	"fmt"
	"strings"
)

// Product is a sellable item held by a single branch. IDs are assigned by the
// remote service; the client never invents them.
type Product struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Branch belongs to exactly one franchise. An inactive branch cannot receive
// new products.
type Branch struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name"`
	Active   bool      `json:"active"`
	Products []Product `json:"products,omitempty"`
}

// Franchise is the root of the entity tree. List endpoints return shallow
// summaries (Branches nil); the detail endpoint returns the full subtree.
type Franchise struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Active   bool     `json:"active"`
	Branches []Branch `json:"branches,omitempty"`
}

// TopProductPerBranch is the derived aggregate entry: the highest-stock
// product of one active branch. The sequence is always replaced wholesale,
// never patched, because any stock change can move the winner.
type TopProductPerBranch struct {
	BranchID   string  `json:"branchId"`
	BranchName string  `json:"branchName"`
	Product    Product `json:"product"`
}

const minNameLength = 3

// NormalizeName trims surrounding whitespace, matching what the service does
// before persisting names.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateName checks a franchise, branch, or product name before it is sent.
func ValidateName(name string) error {
	name = NormalizeName(name)
	if name == "" {
		return NewValidationError("name is required")
	}
	if len(name) < minNameLength {
		return NewValidationError(fmt.Sprintf("name must be at least %d characters long", minNameLength))
	}
	return nil
}

// ValidateStock rejects negative stock values locally.
func ValidateStock(stock int) error {
	if stock < 0 {
		return NewValidationError("stock must not be negative")
	}
	return nil
}
