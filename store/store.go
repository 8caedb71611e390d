// Package store keeps finished simulation results in a LevelDB database so
// that runs can be listed and compared later.
package store

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/sarchlab/vpsim/sim"
)

var resultPrefix = []byte("result/")

// ErrNotFound is returned when no result is stored under a name.
var ErrNotFound = errors.New("result not found")

// Store is a results database.
type Store struct {
	db *leveldb.DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open results store")
	}
	return &Store{db: db}, nil
}

// OpenMemory creates a store that lives only in memory.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open results store")
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func resultKey(name string) []byte {
	return append(append([]byte{}, resultPrefix...), name...)
}

// Put stores a result under name, replacing any previous one.
func (s *Store) Put(name string, r sim.Result) error {
	if name == "" {
		return errors.New("result name must not be empty")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to encode result")
	}
	return errors.Wrap(s.db.Put(resultKey(name), data, nil), "failed to store result")
}

// Get loads the result stored under name.
func (s *Store) Get(name string) (sim.Result, error) {
	var r sim.Result

	data, err := s.db.Get(resultKey(name), nil)
	if err == leveldb.ErrNotFound {
		return r, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return r, errors.Wrap(err, "failed to load result")
	}

	if err := json.Unmarshal(data, &r); err != nil {
		return r, errors.Wrap(err, "failed to decode result")
	}
	return r, nil
}

// Delete removes the result stored under name.
func (s *Store) Delete(name string) error {
	return errors.Wrap(s.db.Delete(resultKey(name), nil), "failed to delete result")
}

// List returns the names of all stored results in sorted order.
func (s *Store) List() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix(resultPrefix), nil)
	defer iter.Release()

	var names []string
	for iter.Next() {
		names = append(names, string(iter.Key()[len(resultPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to list results")
	}

	sort.Strings(names)
	return names, nil
}
