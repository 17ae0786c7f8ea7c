package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"brc-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "none.yaml"))

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.Settings{}, got)
}

func TestFileStore_SaveAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := NewFileStore(path)
	ctx := context.Background()

	want := entity.Settings{
		Identity: entity.AgentIdentity{ID: "brc0123", Label: "Work laptop"},
		Binding:  entity.ServerBinding{Endpoint: "https://example.com", Credential: "secret", Registered: true},
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "browser_id: brc0123")
	assert.Contains(t, string(raw), "server_url: https://example.com")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("identity: [not, a, map"), 0o600))

	_, err := NewFileStore(path).Get(context.Background())
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(entity.Settings{})
	ctx := context.Background()

	s := entity.Settings{}.WithIdentity("brc1")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "brc1", got.Identity.ID)
	assert.Equal(t, 1, store.Saves())
}
