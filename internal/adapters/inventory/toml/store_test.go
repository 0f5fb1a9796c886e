package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "inventory.toml"))
	require.NoError(t, err)

	inv := domain.Inventory{
		Consoles: []string{"PS4"},
		Stations: []domain.StationSpec{
			{Name: "TV", Total: 4, Accepts: []string{"Smash"}, Consoles: []string{"PS4"}},
			{Name: "Broken Table", Total: 0},
		},
		Equipment: []domain.EquipmentSpec{
			{Name: "Smash", Total: 4},
			{Name: "PS4_Fifa", Total: 1},
		},
	}

	require.NoError(t, store.Save(context.Background(), inv))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inv, got)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(inventoryFileMode), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), ".inventory-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStoreLoadMissingFileReturnsDefaultSeed(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "inventory.toml"))
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInventory(), got)
}

func TestStoreLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "inventory.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[stations]]
name = "Tennis Table"
accepts = ["Paddle"]

[[stations]]
name = "Closed"
total = 0

[[equipment]]
name = "Paddle"
total = 2
`), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Inventory{
		Stations: []domain.StationSpec{
			{Name: "Tennis Table", Total: 1, Accepts: []string{"Paddle"}},
			{Name: "Closed", Total: 0},
		},
		Equipment: []domain.EquipmentSpec{{Name: "Paddle", Total: 2}},
	}, got)
}

func TestStoreLoadRejectsBadFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
		wantIs  error
	}{
		{
			name:    "future version",
			content: "version = 2\n",
			wantErr: "unsupported inventory schema version 2",
		},
		{
			name:    "malformed toml",
			content: "[[stations]\n",
			wantErr: "decode inventory file",
		},
		{
			name:    "unknown accepted equipment",
			content: "[[stations]]\nname = \"TV\"\naccepts = [\"Smash\"]\n",
			wantIs:  domain.ErrInvalidInventory,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "inventory.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			store, err := NewStore(path)
			require.NoError(t, err)

			_, err = store.Load(context.Background())
			require.Error(t, err)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
			}
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}

func TestStoreInitRefusesToOverwrite(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "inventory.toml"))
	require.NoError(t, err)

	require.NoError(t, store.Init(context.Background(), domain.DefaultInventory(), false))
	err = store.Init(context.Background(), domain.DefaultInventory(), false)
	assert.ErrorIs(t, err, ErrInventoryExists)

	small := domain.Inventory{Stations: []domain.StationSpec{{Name: "Pool", Total: 1}}}
	require.NoError(t, store.Init(context.Background(), small, true))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, small, got)
}

func TestStoreSaveRejectsInvalidInventory(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "inventory.toml"))
	require.NoError(t, err)

	err = store.Save(context.Background(), domain.Inventory{Stations: []domain.StationSpec{{Name: ""}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInventory)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "inventory.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Save(ctx, domain.DefaultInventory()), context.Canceled)
}

func TestEncodeWritesVersion(t *testing.T) {
	t.Parallel()

	data, err := Encode(domain.DefaultInventory())
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "Pool Stick")
}
