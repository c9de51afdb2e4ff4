package settings_test

import (
	"context"
	"testing"

	"github.com/fiscalflow/client-go/credentials"
	"github.com/fiscalflow/client-go/credentials/storefakes"
	"github.com/fiscalflow/client-go/settings"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*settings.Store, *storefakes.FakeStore) {
	t.Helper()
	fake := storefakes.NewFakeStore()
	store, err := settings.New(fake)
	require.NoError(t, err)
	return store, fake
}

func TestFlagsDefaultToFalse(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	autoLogin, err := store.AutoLogin(ctx)
	require.NoError(t, err)
	require.False(t, autoLogin)

	biometricLogin, err := store.BiometricLogin(ctx)
	require.NoError(t, err)
	require.False(t, biometricLogin)
}

func TestEnableAutoLoginThenBiometric(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAutoLogin(ctx, true))
	require.NoError(t, store.SetBiometricLogin(ctx, true))

	biometricLogin, err := store.BiometricLogin(ctx)
	require.NoError(t, err)
	require.True(t, biometricLogin)
}

func TestBiometricRequiresAutoLogin(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.Error(t, store.SetBiometricLogin(ctx, true))

	biometricLogin, err := store.BiometricLogin(ctx)
	require.NoError(t, err)
	require.False(t, biometricLogin)
}

func TestDisablingAutoLoginCascadesBiometricOff(t *testing.T) {
	store, fake := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAutoLogin(ctx, true))
	require.NoError(t, store.SetBiometricLogin(ctx, true))
	require.NoError(t, store.SetAutoLogin(ctx, false))

	autoLogin, err := store.AutoLogin(ctx)
	require.NoError(t, err)
	require.False(t, autoLogin)

	biometricLogin, err := store.BiometricLogin(ctx)
	require.NoError(t, err)
	require.False(t, biometricLogin)
	require.Empty(t, fake.Value(credentials.KeyBiometricLogin))
}

func TestCascadeIsIdempotent(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	// Disabling flags that were never set is fine.
	require.NoError(t, store.SetAutoLogin(ctx, false))
	require.NoError(t, store.SetBiometricLogin(ctx, false))
}
