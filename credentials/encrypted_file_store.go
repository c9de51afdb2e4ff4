package credentials

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	clienterrors "github.com/fiscalflow/client-go/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLength  = 16
	nonceLength = 24

	// scrypt cost parameters; interactive-login strength is enough for a
	// device-local file that is already behind OS user isolation.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// EncryptedFileStore persists secrets as a single JSON document encrypted
// with a key derived from a passphrase. File layout: salt || nonce || box.
// Every write re-encrypts the whole document under a fresh nonce and
// replaces the file atomically.
type EncryptedFileStore struct {
	path       string
	passphrase string

	mu     sync.Mutex
	loaded bool
	salt   []byte
	values map[string]string
}

var _ Store = (*EncryptedFileStore)(nil)

func NewEncryptedFileStore(path, passphrase string) (*EncryptedFileStore, error) {
	if path == "" {
		return nil, errors.New("[NewEncryptedFileStore] path is required")
	}
	if passphrase == "" {
		return nil, errors.New("[NewEncryptedFileStore] passphrase is required")
	}
	return &EncryptedFileStore{
		path:       path,
		passphrase: passphrase,
	}, nil
}

func (s *EncryptedFileStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", err
	}
	return s.values[key], nil
}

func (s *EncryptedFileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.values[key] = value
	return s.save()
}

func (s *EncryptedFileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// load reads and decrypts the backing file once. A missing file is a valid
// empty store.
func (s *EncryptedFileStore) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.values = make(map[string]string)
		s.loaded = true
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "[EncryptedFileStore.load] read")
	}

	if len(data) < saltLength+nonceLength+secretbox.Overhead {
		return errors.Wrap(clienterrors.ErrStoreCorrupt, "[EncryptedFileStore.load] file too short")
	}

	salt := data[:saltLength]
	var nonce [nonceLength]byte
	copy(nonce[:], data[saltLength:saltLength+nonceLength])
	box := data[saltLength+nonceLength:]

	key, err := s.deriveKey(salt)
	if err != nil {
		return err
	}

	plaintext, ok := secretbox.Open(nil, box, &nonce, key)
	if !ok {
		return errors.Wrap(clienterrors.ErrStoreCorrupt, "[EncryptedFileStore.load] decrypt")
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return errors.Wrap(clienterrors.ErrStoreCorrupt, "[EncryptedFileStore.load] unmarshal")
	}

	s.salt = salt
	s.values = values
	s.loaded = true
	return nil
}

func (s *EncryptedFileStore) save() error {
	if s.salt == nil {
		s.salt = make([]byte, saltLength)
		if _, err := rand.Read(s.salt); err != nil {
			return errors.Wrap(err, "[EncryptedFileStore.save] salt generation")
		}
	}

	key, err := s.deriveKey(s.salt)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(s.values)
	if err != nil {
		return errors.Wrap(err, "[EncryptedFileStore.save] marshal")
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return errors.Wrap(err, "[EncryptedFileStore.save] nonce generation")
	}

	data := make([]byte, 0, saltLength+nonceLength+len(plaintext)+secretbox.Overhead)
	data = append(data, s.salt...)
	data = append(data, nonce[:]...)
	data = secretbox.Seal(data, plaintext, &nonce, key)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(clienterrors.ErrStoreUnwritable, err.Error())
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(clienterrors.ErrStoreUnwritable, err.Error())
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(clienterrors.ErrStoreUnwritable, err.Error())
	}
	return nil
}

func (s *EncryptedFileStore) deriveKey(salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(s.passphrase), salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, errors.Wrap(err, "[EncryptedFileStore.deriveKey] scrypt")
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
