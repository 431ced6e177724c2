package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skipbaeanjing/realm/mixed"
)

// RecordID identifies a record in the store.
type RecordID = primitive.ObjectID

// ErrFrozen is returned when a write is attempted through a frozen
// snapshot view.
var ErrFrozen = errors.New("storage: store is frozen")

// Key layout:
//   'r' <12-byte record id>              record marker
//   'f' <12-byte record id> <field name> field cell
const (
	recordTag = 'r'
	cellTag   = 'f'
)

// Store is an embedded record store on BadgerDB. Records hold named
// polymorphic fields, each stored as one tagged cell. A Store is either
// live or a frozen snapshot view produced by Freeze; frozen views share
// the underlying database and become unusable when the live store
// closes.
type Store struct {
	db     *badger.DB
	parent *Store      // live store, for frozen views
	snap   *badger.Txn // pinned read transaction, nil when live

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) a store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger is chatty by default

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the store. Closing a live store invalidates every
// record handle and frozen view resolved through it; closing a frozen
// view only discards its snapshot.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.snap != nil {
		s.snap.Discard()
		return nil
	}
	return s.db.Close()
}

// Closed reports whether the store, or the live store behind a frozen
// view, has been closed.
func (s *Store) Closed() bool {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return true
	}
	if s.parent != nil {
		return s.parent.Closed()
	}
	return false
}

// Frozen reports whether this store is a read-only snapshot view.
func (s *Store) Frozen() bool {
	return s.snap != nil
}

// Freeze returns a read-only view pinned to the store's current state.
// Later writes to the live store are not visible through it. The view
// should be closed when no longer needed.
func (s *Store) Freeze() *Store {
	live := s
	if s.parent != nil {
		live = s.parent
	}
	return &Store{
		db:     live.db,
		parent: live,
		snap:   live.db.NewTransaction(false),
	}
}

// view runs fn against the store's current state: the pinned snapshot
// for frozen views, a fresh read transaction otherwise.
func (s *Store) view(fn func(txn *badger.Txn) error) error {
	if s.Closed() {
		return fmt.Errorf("store is closed: %w", mixed.ErrStoreProtocol)
	}
	if s.snap != nil {
		return fn(s.snap)
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(txn *badger.Txn) error) error {
	if s.Frozen() {
		return ErrFrozen
	}
	if s.Closed() {
		return fmt.Errorf("store is closed: %w", mixed.ErrStoreProtocol)
	}
	return s.db.Update(fn)
}

func recordKey(id RecordID) []byte {
	key := make([]byte, 0, 1+len(id))
	key = append(key, recordTag)
	return append(key, id[:]...)
}

func cellKey(id RecordID, field string) []byte {
	key := make([]byte, 0, 1+len(id)+len(field))
	key = append(key, cellTag)
	key = append(key, id[:]...)
	return append(key, field...)
}

// CreateRecord allocates a new empty record and returns its handle.
func (s *Store) CreateRecord() (*Row, error) {
	id := primitive.NewObjectID()
	err := s.update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(id), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return &Row{store: s, id: id}, nil
}

// Record returns a handle for the given id. The record is not checked
// for existence; use Row.RecordValid when that matters.
func (s *Store) Record(id RecordID) *Row {
	return &Row{store: s, id: id}
}

// Records lists the ids of every record visible in this store state.
func (s *Store) Records() ([]RecordID, error) {
	var ids []RecordID
	err := s.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte{recordTag}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if len(key) != 1+12 {
				return fmt.Errorf("malformed record key %x: %w", key, mixed.ErrStoreProtocol)
			}
			var id RecordID
			copy(id[:], key[1:])
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
