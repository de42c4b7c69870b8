package hostsim

import (
	"bytes"
	stderrors "errors"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// fieldSep joins a state key and field into one storage key.
const fieldSep = "#"

// Entry is one world state value.
type Entry struct {
	Key   string
	Field string
	Value []byte
}

// Store is the simulated world state. Values are addressed by key and an
// optional field and stored under "key#field", or "key" alone when the field
// is empty.
type Store struct {
	db *pebble.DB
}

// OpenStore opens a store in dir, or an in-memory store when dir is empty.
func OpenStore(dir string) (*Store, error) {
	opts := &pebble.Options{}
	path := dir
	if dir == "" {
		opts.FS = vfs.NewMem()
		path = "state"
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindNotInitialized, err, "open state store")
	}
	return &Store{db: db}, nil
}

func storageKey(key, field string) []byte {
	if field == "" {
		return []byte(key)
	}
	return []byte(key + fieldSep + field)
}

func splitKey(k []byte) (key, field string) {
	key, field, _ = strings.Cut(string(k), fieldSep)
	return key, field
}

// Get returns the value under key and field, or nil if there is none.
func (s *Store) Get(key, field string) ([]byte, error) {
	data, closer, err := s.db.Get(storageKey(key, field))
	if stderrors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "read state")
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Put(key, field string, value []byte) error {
	if err := s.db.Set(storageKey(key, field), value, pebble.NoSync); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "write state")
	}
	return nil
}

func (s *Store) Delete(key, field string) error {
	if err := s.db.Delete(storageKey(key, field), pebble.NoSync); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "delete state")
	}
	return nil
}

// Range returns the entries in [start, limit) in key order. An empty limit
// leaves the range open at the top.
func (s *Store) Range(startKey, startField, limitKey, limitField string) ([]Entry, error) {
	opts := &pebble.IterOptions{LowerBound: storageKey(startKey, startField)}
	if limitKey != "" || limitField != "" {
		opts.UpperBound = storageKey(limitKey, limitField)
		if bytes.Compare(opts.LowerBound, opts.UpperBound) >= 0 {
			return nil, nil
		}
	}
	return s.scan(opts)
}

// Prefix returns the entries whose storage key starts with "key#field".
func (s *Store) Prefix(key, field string) ([]Entry, error) {
	prefix := []byte(key + fieldSep + field)
	return s.scan(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
}

func (s *Store) scan(opts *pebble.IterOptions) ([]Entry, error) {
	it, err := s.db.NewIter(opts)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "open state iterator")
	}

	var entries []Entry
	for it.First(); it.Valid(); it.Next() {
		key, field := splitKey(it.Key())
		value := make([]byte, len(it.Value()))
		copy(value, it.Value())
		entries = append(entries, Entry{Key: key, Field: field, Value: value})
	}
	if err := it.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "close state iterator")
	}
	return entries, nil
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := make([]byte, len(p))
	copy(end, p)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
