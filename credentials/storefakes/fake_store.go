package storefakes

import (
	"context"
	"sync"

	"github.com/fiscalflow/client-go/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store that counts writes and
// deletes per key, so tests can assert that a failed verification never
// touched persistent storage.
type FakeStore struct {
	values  map[string]string
	sets    map[string]int
	deletes map[string]int
	lock    sync.RWMutex

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values:  make(map[string]string),
		sets:    make(map[string]int),
		deletes: make(map[string]int),
	}
}

func (fs *FakeStore) Get(_ context.Context, key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.values[key], nil
}

func (fs *FakeStore) Set(_ context.Context, key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.values[key] = value
	fs.sets[key]++
	return nil
}

func (fs *FakeStore) Delete(_ context.Context, key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.values, key)
	fs.deletes[key]++
	return nil
}

// Seed stores a value without counting it as a Set, for arranging
// preconditions.
func (fs *FakeStore) Seed(key, value string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
}

func (fs *FakeStore) Value(key string) string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.values[key]
}

func (fs *FakeStore) SetCount(key string) int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.sets[key]
}

func (fs *FakeStore) DeleteCount(key string) int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.deletes[key]
}
