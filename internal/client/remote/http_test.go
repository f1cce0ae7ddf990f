package remote

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/server/auth"
	serverhttp "github.com/planmint/designvault/internal/server/http"
	serverdesigns "github.com/planmint/designvault/internal/server/repositories/designs"
)

var secretKey = []byte("test-secret")

// startVault spins up a real vault server on an in-memory repository.
func startVault(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := serverhttp.NewHandler(serverdesigns.NewInMemoryRepository(), nil, nil)
	srv := httptest.NewServer(serverhttp.NewRouter(handler, secretKey))
	t.Cleanup(srv.Close)
	return srv
}

func storeFor(t *testing.T, srv *httptest.Server, ownerID string) *HTTPStore {
	t.Helper()
	token, err := auth.GenerateToken(ownerID, secretKey, time.Minute)
	require.NoError(t, err)
	return NewHTTPStore(srv.URL, StaticTokenSource(token), 5*time.Second)
}

func TestHTTPStore_PutGetRoundTrip(t *testing.T) {
	srv := startVault(t)
	store := storeFor(t, srv, "alice")

	d := models.NewDesign("alice", models.Plan{
		Title: "villa",
		Style: "modern",
		Rooms: []models.Room{{
			Name: "kitchen",
			Options: map[string]models.CustomizationGroup{
				"floor": {Label: "Flooring", Options: []string{"oak", "tile"}},
			},
		}},
	})
	d.UpsertArtifact(models.NewArtifact("interior", "https://cdn/img1", "sunny kitchen"))

	require.NoError(t, store.Put(t.Context(), "alice", d))

	got, err := store.GetAllByOwner(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *d, got[0])
}

func TestHTTPStore_PutTwiceYieldsOneRecord(t *testing.T) {
	srv := startVault(t)
	store := storeFor(t, srv, "alice")

	d := models.NewDesign("alice", models.Plan{Title: "villa"})
	require.NoError(t, store.Put(t.Context(), "alice", d))
	require.NoError(t, store.Put(t.Context(), "alice", d))

	got, err := store.GetAllByOwner(t.Context(), "alice")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestHTTPStore_EmptyOwner(t *testing.T) {
	srv := startVault(t)
	store := storeFor(t, srv, "alice")

	got, err := store.GetAllByOwner(t.Context(), "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPStore_DeleteIsIdempotent(t *testing.T) {
	srv := startVault(t)
	store := storeFor(t, srv, "alice")

	d := models.NewDesign("alice", models.Plan{Title: "villa"})
	require.NoError(t, store.Put(t.Context(), "alice", d))

	require.NoError(t, store.DeleteByID(t.Context(), "alice", d.ID))
	require.NoError(t, store.DeleteByID(t.Context(), "alice", d.ID))
	require.NoError(t, store.DeleteByID(t.Context(), "alice", "never-existed"))

	got, err := store.GetAllByOwner(t.Context(), "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPStore_OwnerMismatchIsPermissionError(t *testing.T) {
	srv := startVault(t)
	// Token is issued for bob, but the store claims to act for alice.
	token, err := auth.GenerateToken("bob", secretKey, time.Minute)
	require.NoError(t, err)
	store := NewHTTPStore(srv.URL, StaticTokenSource(token), 5*time.Second)

	_, err = store.GetAllByOwner(t.Context(), "alice")
	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestHTTPStore_MissingTokenIsPermissionError(t *testing.T) {
	srv := startVault(t)
	store := NewHTTPStore(srv.URL, nil, 5*time.Second)

	_, err := store.GetAllByOwner(t.Context(), "alice")
	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestHTTPStore_ForeignDesignIsPermissionError(t *testing.T) {
	srv := startVault(t)
	alice := storeFor(t, srv, "alice")
	bob := storeFor(t, srv, "bob")

	d := models.NewDesign("alice", models.Plan{Title: "villa"})
	require.NoError(t, alice.Put(t.Context(), "alice", d))

	stolen := d.Clone()
	stolen.OwnerID = "bob"
	err := bob.Put(t.Context(), "bob", stolen)
	assert.ErrorIs(t, err, common.ErrPermission)

	// Nothing leaked across owners either.
	got, err := bob.GetAllByOwner(t.Context(), "bob")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPStore_UnreachableServerIsNetworkError(t *testing.T) {
	srv := startVault(t)
	store := storeFor(t, srv, "alice")
	srv.Close()

	_, err := store.GetAllByOwner(t.Context(), "alice")
	assert.ErrorIs(t, err, common.ErrNetwork)
}
