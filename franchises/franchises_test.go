package franchises_test

import (
	"testing"

	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	require.NoError(t, franchises.ValidateName("Sucursal Centro"))
	require.NoError(t, franchises.ValidateName("  Sucursal Centro  "))

	t.Run("empty and whitespace-only names are rejected", func(t *testing.T) {
		require.Error(t, franchises.ValidateName(""))
		require.Error(t, franchises.ValidateName("   "))
	})

	t.Run("names shorter than three characters are rejected", func(t *testing.T) {
		err := franchises.ValidateName("ab")
		require.Error(t, err)
		require.True(t, franchises.IsValidation(err))
	})
}

func TestValidateStock(t *testing.T) {
	require.NoError(t, franchises.ValidateStock(0))
	require.NoError(t, franchises.ValidateStock(120))

	err := franchises.ValidateStock(-1)
	require.Error(t, err)
	require.True(t, franchises.IsValidation(err))
}
