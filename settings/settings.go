// Package settings persists the user policy flags that gate automatic
// session re-establishment.
package settings

import (
	"context"

	"github.com/fiscalflow/client-go/credentials"
	"github.com/pkg/errors"
)

// Flags are stored as the strings "true"/"false" under stable keys in the
// credential store, matching what earlier app builds wrote.
const flagTrue = "true"

// Store reads and writes the auto-login and biometric-login policy flags.
// Biometric login is subordinate to auto-login: it can only be enabled
// while auto-login is on, and turning auto-login off clears it.
type Store struct {
	creds credentials.Store
}

func New(creds credentials.Store) (*Store, error) {
	if creds == nil {
		return nil, errors.New("[settings.New] credential store is required")
	}
	return &Store{creds: creds}, nil
}

func (s *Store) AutoLogin(ctx context.Context) (bool, error) {
	value, err := s.creds.Get(ctx, credentials.KeyAutoLogin)
	if err != nil {
		return false, errors.Wrap(err, "[Store.AutoLogin] get")
	}
	return value == flagTrue, nil
}

// SetAutoLogin persists the auto-login flag. Disabling it also clears the
// biometric flag so an orphaned "biometric without auto-login" state can
// never be observed.
func (s *Store) SetAutoLogin(ctx context.Context, enabled bool) error {
	if !enabled {
		if err := s.creds.Delete(ctx, credentials.KeyBiometricLogin); err != nil {
			return errors.Wrap(err, "[Store.SetAutoLogin] cascade biometric clear")
		}
		if err := s.creds.Delete(ctx, credentials.KeyAutoLogin); err != nil {
			return errors.Wrap(err, "[Store.SetAutoLogin] delete")
		}
		return nil
	}
	if err := s.creds.Set(ctx, credentials.KeyAutoLogin, flagTrue); err != nil {
		return errors.Wrap(err, "[Store.SetAutoLogin] set")
	}
	return nil
}

func (s *Store) BiometricLogin(ctx context.Context) (bool, error) {
	value, err := s.creds.Get(ctx, credentials.KeyBiometricLogin)
	if err != nil {
		return false, errors.Wrap(err, "[Store.BiometricLogin] get")
	}
	return value == flagTrue, nil
}

// SetBiometricLogin persists the biometric flag. Enabling it requires
// auto-login to be on already.
func (s *Store) SetBiometricLogin(ctx context.Context, enabled bool) error {
	if !enabled {
		if err := s.creds.Delete(ctx, credentials.KeyBiometricLogin); err != nil {
			return errors.Wrap(err, "[Store.SetBiometricLogin] delete")
		}
		return nil
	}
	autoLogin, err := s.AutoLogin(ctx)
	if err != nil {
		return err
	}
	if !autoLogin {
		return errors.New("[Store.SetBiometricLogin] biometric login requires auto-login")
	}
	if err := s.creds.Set(ctx, credentials.KeyBiometricLogin, flagTrue); err != nil {
		return errors.Wrap(err, "[Store.SetBiometricLogin] set")
	}
	return nil
}
