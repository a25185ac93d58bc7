package reconcile_test

import (
	"context"
	"testing"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/cfcastillo/go-franchise-client/api/apifakes"
	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/cfcastillo/go-franchise-client/franchises/treestore"
	"github.com/cfcastillo/go-franchise-client/reconcile"
	"github.com/stretchr/testify/require"
)

type staticRoles []string

func (r staticRoles) Roles() []string { return r }

var adminRoles = staticRoles{"ADMIN", "USER"}

type coordinatorFixture struct {
	store       *treestore.Store
	inventory   *apifakes.FakeInventoryAPI
	coordinator *reconcile.Coordinator
}

func setupCoordinatorFixture(t *testing.T, roles reconcile.RoleSource) *coordinatorFixture {
	t.Helper()

	store := treestore.New()
	inventory := apifakes.NewFakeInventoryAPI()
	coordinator, err := reconcile.New(store, inventory, roles)
	require.NoError(t, err)

	return &coordinatorFixture{store: store, inventory: inventory, coordinator: coordinator}
}

func openActiveFranchise(f *coordinatorFixture) {
	f.store.OpenDetail(franchises.Franchise{
		ID:     "f1",
		Name:   "Franquicia Uno",
		Active: true,
		Branches: []franchises.Branch{
			{ID: "b1", Name: "Centro", Active: true, Products: []franchises.Product{{ID: "p1", Name: "Cafe", Stock: 10}}},
			{ID: "b2", Name: "Norte", Active: false},
		},
	})
}

func TestCoordinator_CreateBranch(t *testing.T) {
	t.Run("success applies the branch and refreshes the aggregate", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		openActiveFranchise(f)
		f.inventory.BranchResult = &franchises.Branch{ID: "b3", Name: "Sur", Active: true}
		f.inventory.TopResult = []franchises.TopProductPerBranch{{BranchID: "b1", BranchName: "Centro"}}

		created, err := f.coordinator.CreateBranch(context.Background(), "f1", "Sur", true)
		require.NoError(t, err)
		require.Equal(t, "b3", created.ID)

		detail, _ := f.store.Detail()
		require.Equal(t, "b3", detail.Branches[0].ID)
		require.Equal(t, 1, f.inventory.TopCalls)
		require.Equal(t, reconcile.MutationApplied, f.coordinator.LastMutation().State())
	})

	t.Run("inactive franchise fails fast without a remote call", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		f.store.OpenDetail(franchises.Franchise{ID: "f1", Name: "Inactiva", Active: false})

		_, err := f.coordinator.CreateBranch(context.Background(), "f1", "Sur", true)
		require.ErrorIs(t, err, franchises.ParentInactiveErr)
		require.Zero(t, f.inventory.MutationCalls)

		detail, _ := f.store.Detail()
		require.Empty(t, detail.Branches)
	})

	t.Run("non-admin fails fast with NotPermitted", func(t *testing.T) {
		f := setupCoordinatorFixture(t, staticRoles{"USER"})
		openActiveFranchise(f)

		_, err := f.coordinator.CreateBranch(context.Background(), "f1", "Sur", true)
		require.ErrorIs(t, err, franchises.NotPermittedErr)
		require.Zero(t, f.inventory.MutationCalls)
	})

	t.Run("remote failure leaves the store unchanged", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		openActiveFranchise(f)
		f.inventory.Err = &api.RemoteError{Status: 409, Message: "branch with that name already exists in franchise"}

		_, err := f.coordinator.CreateBranch(context.Background(), "f1", "Centro", true)
		require.Error(t, err)

		detail, _ := f.store.Detail()
		require.Len(t, detail.Branches, 2)
		require.Zero(t, f.inventory.TopCalls)
		require.Equal(t, reconcile.MutationFailed, f.coordinator.LastMutation().State())
	})
}

func TestCoordinator_CreateProduct(t *testing.T) {
	t.Run("inactive branch fails fast without a remote call", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		openActiveFranchise(f)

		_, err := f.coordinator.CreateProduct(context.Background(), "f1", "b2", "Arepa", 5)
		require.ErrorIs(t, err, franchises.ParentInactiveErr)
		require.Zero(t, f.inventory.MutationCalls)
	})

	t.Run("negative stock fails locally", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		openActiveFranchise(f)

		_, err := f.coordinator.CreateProduct(context.Background(), "f1", "b1", "Arepa", -1)
		require.True(t, franchises.IsValidation(err))
		require.Zero(t, f.inventory.MutationCalls)
	})

	t.Run("success applies the product and refreshes the aggregate", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		openActiveFranchise(f)
		f.inventory.ProductResult = &franchises.Product{ID: "p9", Name: "Arepa", Stock: 5}

		created, err := f.coordinator.CreateProduct(context.Background(), "f1", "b1", "Arepa", 5)
		require.NoError(t, err)
		require.Equal(t, "p9", created.ID)

		detail, _ := f.store.Detail()
		require.Equal(t, "p9", detail.Branches[0].Products[0].ID)
		require.Equal(t, 1, f.inventory.TopCalls)
	})
}

func TestCoordinator_ProductMutationsRefreshAggregate(t *testing.T) {
	f := setupCoordinatorFixture(t, adminRoles)
	openActiveFranchise(f)
	f.inventory.ProductResult = &franchises.Product{ID: "p1", Name: "Cafe", Stock: 99}

	_, err := f.coordinator.UpdateProductStock(context.Background(), "f1", "b1", "p1", 99)
	require.NoError(t, err)
	require.Equal(t, 1, f.inventory.TopCalls)

	require.NoError(t, f.coordinator.DeleteProduct(context.Background(), "f1", "b1", "p1"))
	require.Equal(t, 2, f.inventory.TopCalls)

	detail, _ := f.store.Detail()
	require.Empty(t, detail.Branches[0].Products)
}

func TestCoordinator_SetFranchiseStatus(t *testing.T) {
	t.Run("deactivation clears the aggregate without fetching", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		openActiveFranchise(f)
		f.store.SetTopProducts([]franchises.TopProductPerBranch{{BranchID: "b1"}})
		f.inventory.FranchiseResult = &franchises.Franchise{ID: "f1", Name: "Franquicia Uno", Active: false}

		updated, err := f.coordinator.SetFranchiseStatus(context.Background(), "f1", false)
		require.NoError(t, err)
		require.False(t, updated.Active)
		require.Empty(t, f.store.TopProducts())
		require.Zero(t, f.inventory.TopCalls)

		// the open detail keeps its branches through the status merge
		detail, _ := f.store.Detail()
		require.Len(t, detail.Branches, 2)
	})

	t.Run("activation triggers a fresh aggregate fetch", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		f.store.OpenDetail(franchises.Franchise{ID: "f1", Name: "Franquicia Uno", Active: false})
		f.inventory.FranchiseResult = &franchises.Franchise{ID: "f1", Name: "Franquicia Uno", Active: true}
		f.inventory.TopResult = []franchises.TopProductPerBranch{{BranchID: "b1"}}

		_, err := f.coordinator.SetFranchiseStatus(context.Background(), "f1", true)
		require.NoError(t, err)
		require.Equal(t, 1, f.inventory.TopCalls)
		require.Len(t, f.store.TopProducts(), 1)
	})
}

func TestCoordinator_DeleteFranchise(t *testing.T) {
	f := setupCoordinatorFixture(t, adminRoles)
	f.store.SetSummaries([]franchises.Franchise{{ID: "f1", Name: "Uno"}, {ID: "f2", Name: "Dos"}})
	openActiveFranchise(f)

	require.NoError(t, f.coordinator.DeleteFranchise(context.Background(), "f1"))
	require.Len(t, f.store.Summaries(), 1)
	_, ok := f.store.Detail()
	require.False(t, ok)

	// re-entrant: local removal of an absent id stays a no-op
	require.NoError(t, f.coordinator.DeleteFranchise(context.Background(), "f1"))
	require.Len(t, f.store.Summaries(), 1)
}

func TestCoordinator_DeleteBranchRefreshesAggregate(t *testing.T) {
	f := setupCoordinatorFixture(t, adminRoles)
	openActiveFranchise(f)
	f.inventory.TopResult = []franchises.TopProductPerBranch{{BranchID: "b1"}}

	require.NoError(t, f.coordinator.DeleteBranch(context.Background(), "f1", "b2"))
	require.Equal(t, 1, f.inventory.TopCalls)

	detail, _ := f.store.Detail()
	require.Len(t, detail.Branches, 1)
}

func TestCoordinator_OpenFranchise(t *testing.T) {
	t.Run("active franchise fetches the aggregate", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		f.inventory.DetailResult = &franchises.Franchise{ID: "f1", Name: "Uno", Active: true}
		f.inventory.TopResult = []franchises.TopProductPerBranch{{BranchID: "b1"}}

		detail, err := f.coordinator.OpenFranchise(context.Background(), "f1")
		require.NoError(t, err)
		require.Equal(t, "f1", detail.ID)
		require.Equal(t, 1, f.inventory.TopCalls)
	})

	t.Run("inactive franchise leaves the aggregate empty without fetching", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		f.inventory.DetailResult = &franchises.Franchise{ID: "f1", Name: "Uno", Active: false}

		_, err := f.coordinator.OpenFranchise(context.Background(), "f1")
		require.NoError(t, err)
		require.Zero(t, f.inventory.TopCalls)
		require.Empty(t, f.store.TopProducts())
	})

	t.Run("aggregate fetch failure clears instead of failing the open", func(t *testing.T) {
		f := setupCoordinatorFixture(t, adminRoles)
		f.inventory.DetailResult = &franchises.Franchise{ID: "f1", Name: "Uno", Active: true}
		f.inventory.TopErr = &api.RemoteError{Status: 500, Message: "boom"}

		_, err := f.coordinator.OpenFranchise(context.Background(), "f1")
		require.NoError(t, err)
		require.Empty(t, f.store.TopProducts())
	})
}

func TestCoordinator_CreateFranchise(t *testing.T) {
	f := setupCoordinatorFixture(t, adminRoles)
	f.store.SetSummaries([]franchises.Franchise{{ID: "f1", Name: "Uno"}})
	f.inventory.FranchiseResult = &franchises.Franchise{ID: "f2", Name: "Dos", Active: true}

	created, err := f.coordinator.CreateFranchise(context.Background(), "  Dos  ")
	require.NoError(t, err)
	require.Equal(t, "f2", created.ID)

	list := f.store.Summaries()
	require.Equal(t, "f2", list[0].ID)
	require.Len(t, list, 2)
}

func TestCoordinator_MutationLifecycle(t *testing.T) {
	f := setupCoordinatorFixture(t, adminRoles)
	require.Nil(t, f.coordinator.LastMutation())

	// a gate rejection never creates a pending mutation
	_, err := f.coordinator.CreateFranchise(context.Background(), "x")
	require.Error(t, err)
	require.Nil(t, f.coordinator.LastMutation())

	f.inventory.FranchiseResult = &franchises.Franchise{ID: "f1", Name: "Uno", Active: true}
	_, err = f.coordinator.CreateFranchise(context.Background(), "Uno")
	require.NoError(t, err)

	m := f.coordinator.LastMutation()
	require.Equal(t, "create-franchise", m.Op())
	require.Equal(t, reconcile.MutationApplied, m.State())
	require.NoError(t, m.Err())
}
