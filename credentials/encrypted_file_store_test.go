package credentials_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fiscalflow/client-go/credentials"
	clienterrors "github.com/fiscalflow/client-go/internal/errors"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, path, passphrase string) *credentials.EncryptedFileStore {
	t.Helper()
	store, err := credentials.NewEncryptedFileStore(path, passphrase)
	require.NoError(t, err)
	return store
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	store := newStore(t, filepath.Join(t.TempDir(), "creds.enc"), "passphrase")

	value, err := store.Get(context.Background(), credentials.KeyAccessToken)
	require.NoError(t, err)
	require.Empty(t, value)
}

func TestRoundTripAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.enc")
	ctx := context.Background()

	store := newStore(t, path, "passphrase")
	require.NoError(t, store.Set(ctx, credentials.KeyAccessToken, "T1"))
	require.NoError(t, store.Set(ctx, credentials.KeyRefreshToken, "R1"))

	// A fresh instance reads the same file.
	reopened := newStore(t, path, "passphrase")
	value, err := reopened.Get(ctx, credentials.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "T1", value)

	value, err = reopened.Get(ctx, credentials.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "R1", value)
}

func TestDeleteRemovesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.enc")
	ctx := context.Background()

	store := newStore(t, path, "passphrase")
	require.NoError(t, store.Set(ctx, credentials.KeyAccessToken, "T1"))
	require.NoError(t, store.Delete(ctx, credentials.KeyAccessToken))

	value, err := store.Get(ctx, credentials.KeyAccessToken)
	require.NoError(t, err)
	require.Empty(t, value)

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete(ctx, credentials.KeyAccessToken))
}

func TestWrongPassphraseIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.enc")
	ctx := context.Background()

	store := newStore(t, path, "passphrase")
	require.NoError(t, store.Set(ctx, credentials.KeyAccessToken, "T1"))

	wrong := newStore(t, path, "not-the-passphrase")
	_, err := wrong.Get(ctx, credentials.KeyAccessToken)
	require.ErrorIs(t, err, clienterrors.ErrStoreCorrupt)
}

func TestConstructorRequiresPassphrase(t *testing.T) {
	_, err := credentials.NewEncryptedFileStore(filepath.Join(t.TempDir(), "creds.enc"), "")
	require.Error(t, err)
}
