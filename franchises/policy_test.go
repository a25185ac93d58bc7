package franchises_test

import (
	"testing"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/stretchr/testify/require"
)

func TestCanCreateBranch(t *testing.T) {
	require.True(t, franchises.CanCreateBranch(franchises.Franchise{Active: true}))
	require.False(t, franchises.CanCreateBranch(franchises.Franchise{Active: false}))
}

func TestCanCreateProduct(t *testing.T) {
	require.True(t, franchises.CanCreateProduct(franchises.Branch{Active: true}))
	require.False(t, franchises.CanCreateProduct(franchises.Branch{Active: false}))
}

func TestCanMutate(t *testing.T) {
	require.True(t, franchises.CanMutate([]string{"ADMIN", "USER"}))
	require.False(t, franchises.CanMutate([]string{"USER"}))
	require.False(t, franchises.CanMutate(nil))
}

func TestGateBranchCreation(t *testing.T) {
	active := franchises.Franchise{Active: true}
	inactive := franchises.Franchise{Active: false}

	t.Run("admin on active franchise passes", func(t *testing.T) {
		require.NoError(t, franchises.GateBranchCreation([]string{"ADMIN"}, active))
	})

	t.Run("non-admin is rejected before the activation check", func(t *testing.T) {
		err := franchises.GateBranchCreation([]string{"USER"}, inactive)
		require.ErrorIs(t, err, franchises.NotPermittedErr)
	})

	t.Run("inactive franchise blocks the admin too", func(t *testing.T) {
		err := franchises.GateBranchCreation([]string{"ADMIN"}, inactive)
		require.ErrorIs(t, err, franchises.ParentInactiveErr)
	})
}

func TestGateProductCreation(t *testing.T) {
	require.NoError(t, franchises.GateProductCreation(franchises.Branch{Active: true}))
	require.ErrorIs(t, franchises.GateProductCreation(franchises.Branch{Active: false}), franchises.ParentInactiveErr)
}
