package stubserver

import (
	"net/http"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/cfcastillo/go-franchise-client/internal/utils"
	"github.com/pkg/errors"
)

func (s *Server) writeRepoError(w http.ResponseWriter, err error, conflictMessage string) {
	switch {
	case errors.Is(err, errNotFound):
		s.writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, errConflict):
		s.writeError(w, http.StatusConflict, conflictMessage)
	case errors.Is(err, errParentInactive):
		s.writeError(w, http.StatusBadRequest, "cannot create under an inactive parent")
	default:
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func validName(name string) bool {
	return franchises.ValidateName(name) == nil
}

func (s *Server) handleListFranchises(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.inventory.summaries())
}

func (s *Server) handleGetFranchise(w http.ResponseWriter, r *http.Request) {
	f, err := s.inventory.get(r.PathValue("id"))
	if err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleCreateFranchise(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Name   string `json:"name"`
		Active *bool  `json:"active"`
	}](r)
	if err != nil || !validName(body.Name) {
		s.writeError(w, http.StatusBadRequest, "franchise name is required")
		return
	}

	f, err := s.inventory.createFranchise(body.Name, utils.ValueOr(body.Active, true))
	if err != nil {
		s.writeRepoError(w, err, "franchise with that name already exists")
		return
	}
	s.writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleRenameFranchise(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Name string `json:"name"`
	}](r)
	if err != nil || !validName(body.Name) {
		s.writeError(w, http.StatusBadRequest, "franchise name is required")
		return
	}

	f, err := s.inventory.renameFranchise(r.PathValue("id"), body.Name)
	if err != nil {
		s.writeRepoError(w, err, "franchise with that name already exists")
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleFranchiseStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Active bool `json:"active"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := s.inventory.setFranchiseStatus(r.PathValue("id"), body.Active)
	if err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFranchise(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.deleteFranchise(r.PathValue("id")); err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Name   string `json:"name"`
		Active *bool  `json:"active"`
	}](r)
	if err != nil || !validName(body.Name) {
		s.writeError(w, http.StatusBadRequest, "branch name is required")
		return
	}

	b, err := s.inventory.addBranch(r.PathValue("id"), body.Name, utils.ValueOr(body.Active, true))
	if err != nil {
		s.writeRepoError(w, err, "branch with that name already exists in franchise")
		return
	}
	s.writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleRenameBranch(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Name string `json:"name"`
	}](r)
	if err != nil || !validName(body.Name) {
		s.writeError(w, http.StatusBadRequest, "branch name is required")
		return
	}

	b, err := s.inventory.renameBranch(r.PathValue("id"), r.PathValue("branchId"), body.Name)
	if err != nil {
		s.writeRepoError(w, err, "branch with that name already exists in franchise")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleBranchStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Active bool `json:"active"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := s.inventory.setBranchStatus(r.PathValue("id"), r.PathValue("branchId"), body.Active)
	if err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.deleteBranch(r.PathValue("id"), r.PathValue("branchId")); err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}](r)
	if err != nil || !validName(body.Name) || body.Stock < 0 {
		s.writeError(w, http.StatusBadRequest, "product name and non-negative stock are required")
		return
	}

	p, err := s.inventory.addProduct(r.PathValue("id"), r.PathValue("branchId"), body.Name, body.Stock)
	if err != nil {
		s.writeRepoError(w, err, "product with that name already exists in branch")
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRenameProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Name string `json:"name"`
	}](r)
	if err != nil || !validName(body.Name) {
		s.writeError(w, http.StatusBadRequest, "product name is required")
		return
	}

	p, err := s.inventory.renameProduct(r.PathValue("id"), r.PathValue("branchId"), r.PathValue("productId"), body.Name)
	if err != nil {
		s.writeRepoError(w, err, "product with that name already exists in branch")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProductStock(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Stock int `json:"stock"`
	}](r)
	if err != nil || body.Stock < 0 {
		s.writeError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	p, err := s.inventory.updateProduct(r.PathValue("id"), r.PathValue("branchId"), r.PathValue("productId"), func(product *franchises.Product) {
		product.Stock = body.Stock
	})
	if err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.deleteProduct(r.PathValue("id"), r.PathValue("branchId"), r.PathValue("productId")); err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	entries, err := s.inventory.topProducts(r.PathValue("id"))
	if err != nil {
		s.writeRepoError(w, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}
