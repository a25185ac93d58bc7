package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/cfcastillo/go-franchise-client/api/apifakes"
	"github.com/cfcastillo/go-franchise-client/session"
	"github.com/stretchr/testify/require"
)

func TestResetFlow_Validate(t *testing.T) {
	t.Run("valid token moves to Valid", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		auth.ValidateMessage = "Token valido. Puedes definir una nueva contrasena."

		flow, err := session.NewResetFlow(auth, "good-token")
		require.NoError(t, err)
		require.Equal(t, session.TokenUnvalidated, flow.TokenState())

		message, err := flow.Validate(context.Background())
		require.NoError(t, err)
		require.Equal(t, "Token valido. Puedes definir una nueva contrasena.", message)
		require.Equal(t, session.TokenValid, flow.TokenState())
	})

	t.Run("transport failure leaves the state alone", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		auth.ValidateErr = errors.New("connection refused")

		flow, err := session.NewResetFlow(auth, "unreachable")
		require.NoError(t, err)

		_, err = flow.Validate(context.Background())
		require.Error(t, err)
		require.Equal(t, session.TokenUnvalidated, flow.TokenState())
	})

	t.Run("rejected token moves to Invalid", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		auth.ValidateErr = &api.RemoteError{Status: 400, Message: "Token de restablecimiento invalido"}

		flow, err := session.NewResetFlow(auth, "bad-token")
		require.NoError(t, err)

		_, err = flow.Validate(context.Background())
		require.Error(t, err)
		require.Equal(t, session.TokenInvalid, flow.TokenState())
	})
}

func TestResetFlow_Submit(t *testing.T) {
	t.Run("unvalidated token fails fast without a remote call", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		flow, err := session.NewResetFlow(auth, "never-validated")
		require.NoError(t, err)

		_, err = flow.Submit(context.Background(), "NewPass123")
		require.ErrorIs(t, err, session.NotPermittedErr)
		require.Zero(t, auth.ResetCalls)
	})

	t.Run("invalid token stays gated", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		auth.ValidateErr = &api.RemoteError{Status: 400, Message: "Token de restablecimiento invalido"}

		flow, err := session.NewResetFlow(auth, "bad-token")
		require.NoError(t, err)
		_, _ = flow.Validate(context.Background())

		_, err = flow.Submit(context.Background(), "NewPass123")
		require.ErrorIs(t, err, session.NotPermittedErr)
		require.Zero(t, auth.ResetCalls)
	})

	t.Run("validated token submits and surfaces the message", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		auth.ValidateMessage = "Token valido."
		auth.ResetMessage = "Contrasena actualizada correctamente."

		flow, err := session.NewResetFlow(auth, "good-token")
		require.NoError(t, err)
		_, err = flow.Validate(context.Background())
		require.NoError(t, err)

		message, err := flow.Submit(context.Background(), "NewPass123")
		require.NoError(t, err)
		require.Equal(t, "Contrasena actualizada correctamente.", message)
		require.Equal(t, 1, auth.ResetCalls)
		require.False(t, flow.Submitting())
	})

	t.Run("changing the token drops a prior validation", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		auth.ValidateMessage = "Token valido."

		flow, err := session.NewResetFlow(auth, "good-token")
		require.NoError(t, err)
		_, err = flow.Validate(context.Background())
		require.NoError(t, err)

		flow.SetToken("another-token")
		require.Equal(t, session.TokenUnvalidated, flow.TokenState())

		_, err = flow.Submit(context.Background(), "NewPass123")
		require.ErrorIs(t, err, session.NotPermittedErr)
	})

	t.Run("weak password fails locally", func(t *testing.T) {
		auth := apifakes.NewFakeAuthAPI()
		flow, err := session.NewResetFlow(auth, "")
		require.NoError(t, err)
		flow.SetValidatedToken("link-token")

		_, err = flow.Submit(context.Background(), "weak")
		require.Error(t, err)
		require.Zero(t, auth.ResetCalls)
	})
}
