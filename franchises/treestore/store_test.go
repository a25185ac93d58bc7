package treestore_test

import (
	"testing"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/cfcastillo/go-franchise-client/franchises/treestore"
	"github.com/stretchr/testify/require"
)

func openFixture() (*treestore.Store, franchises.Franchise) {
	detail := franchises.Franchise{
		ID:     "f1",
		Name:   "Franquicia Uno",
		Active: true,
		Branches: []franchises.Branch{
			{ID: "b1", Name: "Centro", Active: true, Products: []franchises.Product{
				{ID: "p1", Name: "Cafe", Stock: 10},
				{ID: "p2", Name: "Pan", Stock: 4},
			}},
			{ID: "b2", Name: "Norte", Active: true, Products: []franchises.Product{
				{ID: "p3", Name: "Leche", Stock: 7},
			}},
		},
	}
	store := treestore.New()
	store.OpenDetail(detail)
	return store, detail
}

func TestStore_Summaries(t *testing.T) {
	store := treestore.New()

	t.Run("SetSummaries drops subtrees", func(t *testing.T) {
		store.SetSummaries([]franchises.Franchise{
			{ID: "f1", Name: "Uno", Branches: []franchises.Branch{{ID: "b1"}}},
			{ID: "f2", Name: "Dos"},
		})
		list := store.Summaries()
		require.Len(t, list, 2)
		require.Nil(t, list[0].Branches)
	})

	t.Run("UpsertSummary prepends new and replaces existing", func(t *testing.T) {
		store.UpsertSummary(franchises.Franchise{ID: "f3", Name: "Tres"})
		list := store.Summaries()
		require.Equal(t, "f3", list[0].ID)
		require.Len(t, list, 3)

		store.UpsertSummary(franchises.Franchise{ID: "f2", Name: "Dos Renombrada"})
		list = store.Summaries()
		require.Len(t, list, 3)
		require.Equal(t, "Dos Renombrada", list[2].Name)
	})

	t.Run("RemoveSummary is idempotent", func(t *testing.T) {
		store.RemoveSummary("f3")
		require.Len(t, store.Summaries(), 2)
		store.RemoveSummary("f3")
		require.Len(t, store.Summaries(), 2)
	})
}

func TestStore_Detail(t *testing.T) {
	store, _ := openFixture()

	t.Run("only one detail is held at a time", func(t *testing.T) {
		store.OpenDetail(franchises.Franchise{ID: "f9", Name: "Otra"})
		detail, ok := store.Detail()
		require.True(t, ok)
		require.Equal(t, "f9", detail.ID)
	})

	t.Run("ReplaceDetail discards a non-matching franchise", func(t *testing.T) {
		require.False(t, store.ReplaceDetail(franchises.Franchise{ID: "f1"}))
		require.True(t, store.ReplaceDetail(franchises.Franchise{ID: "f9", Name: "Otra v2"}))
	})

	t.Run("CloseDetail drops detail and aggregate", func(t *testing.T) {
		store.SetTopProducts([]franchises.TopProductPerBranch{{BranchID: "b1"}})
		store.CloseDetail()
		_, ok := store.Detail()
		require.False(t, ok)
		require.Empty(t, store.TopProducts())
	})
}

func TestStore_MergeDetail(t *testing.T) {
	store, _ := openFixture()

	t.Run("keeps branches when the update carries none", func(t *testing.T) {
		require.True(t, store.MergeDetail(franchises.Franchise{ID: "f1", Name: "Renombrada", Active: false}))
		detail, ok := store.Detail()
		require.True(t, ok)
		require.Equal(t, "Renombrada", detail.Name)
		require.False(t, detail.Active)
		require.Len(t, detail.Branches, 2)
	})

	t.Run("ignores a different franchise", func(t *testing.T) {
		require.False(t, store.MergeDetail(franchises.Franchise{ID: "f2"}))
	})
}

func TestStore_BranchPatches(t *testing.T) {
	t.Run("upsert replaces by id preserving order", func(t *testing.T) {
		store, _ := openFixture()
		require.True(t, store.UpsertBranch("f1", franchises.Branch{ID: "b2", Name: "Norte Renombrada", Active: true}))

		detail, _ := store.Detail()
		require.Equal(t, "b1", detail.Branches[0].ID)
		require.Equal(t, "Norte Renombrada", detail.Branches[1].Name)
	})

	t.Run("upsert prepends a new branch", func(t *testing.T) {
		store, _ := openFixture()
		require.True(t, store.UpsertBranch("f1", franchises.Branch{ID: "b3", Name: "Sur", Active: true}))

		detail, _ := store.Detail()
		require.Len(t, detail.Branches, 3)
		require.Equal(t, "b3", detail.Branches[0].ID)
	})

	t.Run("remove filters by id and is idempotent", func(t *testing.T) {
		store, _ := openFixture()
		require.True(t, store.RemoveBranch("f1", "b1"))

		detail, _ := store.Detail()
		require.Len(t, detail.Branches, 1)
		require.Equal(t, "b2", detail.Branches[0].ID)

		require.True(t, store.RemoveBranch("f1", "b1"))
		detail, _ = store.Detail()
		require.Len(t, detail.Branches, 1)
	})

	t.Run("patch for a closed franchise is discarded", func(t *testing.T) {
		store, _ := openFixture()
		require.False(t, store.UpsertBranch("f2", franchises.Branch{ID: "bx"}))
	})
}

func TestStore_ProductPatches(t *testing.T) {
	t.Run("delete removes exactly the matching id keeping sibling order", func(t *testing.T) {
		store, _ := openFixture()
		require.True(t, store.RemoveProduct("f1", "b1", "p1"))

		detail, _ := store.Detail()
		require.Equal(t, []franchises.Product{{ID: "p2", Name: "Pan", Stock: 4}}, detail.Branches[0].Products)
		// untouched sibling branch keeps its products
		require.Len(t, detail.Branches[1].Products, 1)

		// absent id is a no-op
		require.True(t, store.RemoveProduct("f1", "b1", "p1"))
		detail, _ = store.Detail()
		require.Len(t, detail.Branches[0].Products, 1)
	})

	t.Run("upsert replaces stock in place of the matching id", func(t *testing.T) {
		store, _ := openFixture()
		require.True(t, store.UpsertProduct("f1", "b1", franchises.Product{ID: "p2", Name: "Pan", Stock: 99}))

		detail, _ := store.Detail()
		require.Equal(t, 99, detail.Branches[0].Products[1].Stock)
		require.Equal(t, "p1", detail.Branches[0].Products[0].ID)
	})

	t.Run("upsert prepends a new product", func(t *testing.T) {
		store, _ := openFixture()
		require.True(t, store.UpsertProduct("f1", "b2", franchises.Product{ID: "p4", Name: "Queso", Stock: 2}))

		detail, _ := store.Detail()
		require.Equal(t, "p4", detail.Branches[1].Products[0].ID)
		require.Len(t, detail.Branches[1].Products, 2)
	})
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	store, _ := openFixture()
	before, ok := store.Detail()
	require.True(t, ok)

	require.True(t, store.UpsertProduct("f1", "b1", franchises.Product{ID: "p1", Name: "Cafe", Stock: 500}))
	require.True(t, store.RemoveBranch("f1", "b2"))

	// the earlier snapshot still sees the original tree
	require.Len(t, before.Branches, 2)
	require.Equal(t, 10, before.Branches[0].Products[0].Stock)

	after, _ := store.Detail()
	require.Len(t, after.Branches, 1)
	require.Equal(t, 500, after.Branches[0].Products[0].Stock)
}

func TestStore_TopProducts(t *testing.T) {
	store, _ := openFixture()

	entries := []franchises.TopProductPerBranch{
		{BranchID: "b1", BranchName: "Centro", Product: franchises.Product{ID: "p1", Name: "Cafe", Stock: 10}},
	}
	store.SetTopProducts(entries)
	require.Equal(t, entries, store.TopProducts())

	// wholesale replacement, never merged
	store.SetTopProducts(nil)
	require.Empty(t, store.TopProducts())

	store.SetTopProducts(entries)
	store.ClearTopProducts()
	require.Empty(t, store.TopProducts())
}
