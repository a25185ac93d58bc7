package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/cfcastillo/go-franchise-client/franchises"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func TestClient_Login(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(api.AuthResponse{
			Token:                  "jwt-token",
			Username:               "admin",
			Roles:                  []string{"ADMIN", "USER"},
			ExpiresAt:              1900000000000,
			PasswordChangeRequired: true,
		})
	}))
	defer server.Close()

	client, err := api.New(server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), "admin", "Admin123!")
	require.NoError(t, err)
	require.Equal(t, "jwt-token", resp.Token)
	require.True(t, resp.PasswordChangeRequired)
	require.Equal(t, map[string]string{"username": "admin", "password": "Admin123!"}, gotBody)
}

func TestClient_BearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]franchises.Franchise{})
	}))
	defer server.Close()

	client, err := api.New(server.URL, staticToken("abc123"))
	require.NoError(t, err)

	_, err = client.Franchises(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(api.MessageResponse{Message: "ok"})
	}))
	defer server.Close()

	client, err := api.New(server.URL, staticToken(""))
	require.NoError(t, err)

	_, err = client.ValidateResetToken(context.Background(), "tok")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestClient_RemoteErrors(t *testing.T) {
	t.Run("server message is surfaced verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"message": "Ya existe una franquicia con ese nombre"})
		}))
		defer server.Close()

		client, err := api.New(server.URL, nil)
		require.NoError(t, err)

		_, err = client.CreateFranchise(context.Background(), "Duplicada")
		require.Error(t, err)

		remote, ok := api.AsRemote(err)
		require.True(t, ok)
		require.Equal(t, http.StatusConflict, remote.Status)
		require.Equal(t, "Ya existe una franquicia con ese nombre", remote.Message)
	})

	t.Run("undecodable body falls back to the canned message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("<html>boom</html>"))
		}))
		defer server.Close()

		client, err := api.New(server.URL, nil)
		require.NoError(t, err)

		_, err = client.Franchises(context.Background())
		remote, ok := api.AsRemote(err)
		require.True(t, ok)
		require.Equal(t, api.FallbackMessage, remote.Message)
	})

	t.Run("empty message field falls back too", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "  "})
		}))
		defer server.Close()

		client, err := api.New(server.URL, nil)
		require.NoError(t, err)

		_, err = client.Franchise(context.Background(), "f1")
		remote, ok := api.AsRemote(err)
		require.True(t, ok)
		require.Equal(t, api.FallbackMessage, remote.Message)
	})
}

func TestClient_InventoryPaths(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var last call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = call{method: r.Method, path: r.URL.Path}
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/franchises/f1/branches/top-products":
			json.NewEncoder(w).Encode([]franchises.TopProductPerBranch{})
		default:
			json.NewEncoder(w).Encode(franchises.Product{ID: "p1"})
		}
	}))
	defer server.Close()

	client, err := api.New(server.URL, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.UpdateProductStock(ctx, "f1", "b1", "p1", 7)
	require.NoError(t, err)
	require.Equal(t, call{http.MethodPatch, "/franchises/f1/branches/b1/products/p1/stock"}, last)

	require.NoError(t, client.DeleteProduct(ctx, "f1", "b1", "p1"))
	require.Equal(t, call{http.MethodDelete, "/franchises/f1/branches/b1/products/p1"}, last)

	_, err = client.TopProducts(ctx, "f1")
	require.NoError(t, err)
	require.Equal(t, call{http.MethodGet, "/franchises/f1/branches/top-products"}, last)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := api.New("  ", nil)
	require.Error(t, err)
}
