// Package store implements a beetle store node: its configuration and
// the content-addressed database the node serves.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/ipfs/go-cid"
)

// Version is the store version reported over RPC.
const Version = "0.1.0"

// Key prefixes inside the content database. Blobs and their outgoing
// links live under separate prefixes keyed by the binary CID.
const (
	blobPrefix  = "blob/"
	graphPrefix = "graph/"
)

// Store is the content-addressed database of one node. Blobs are keyed
// by CID; each blob may carry the set of CIDs it links to.
type Store struct {
	db     *badger.DB
	closed atomic.Bool
}

// Create initializes a new content database at cfg.Path. It fails if a
// database already exists there.
func Create(ctx context.Context, cfg Config) (*Store, error) {
	if entries, err := os.ReadDir(cfg.Path); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("create store at %s: %w", cfg.Path, ErrAlreadyExists)
	}
	return open(ctx, cfg)
}

// Open opens the content database at cfg.Path, creating it if absent.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	return open(ctx, cfg)
}

func open(ctx context.Context, cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.Path, 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open content database at %s: %w", cfg.Path, err)
	}

	slog.Info("content database opened", "path", cfg.Path)
	return &Store{db: db}, nil
}

// Put stores a blob under its CID together with the CIDs it links to.
// Storing the same CID again overwrites with identical content, so the
// operation is idempotent.
func (s *Store) Put(_ context.Context, c cid.Cid, blob []byte, links []cid.Cid) error {
	if s.closed.Load() {
		return ErrClosed
	}

	key := c.Bytes()
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(append([]byte(blobPrefix), key...), blob); err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return txn.Set(append([]byte(graphPrefix), key...), encodeLinks(links))
	})
	if err != nil {
		return fmt.Errorf("store put %s: %w", c, err)
	}
	return nil
}

// Get retrieves a blob by CID. Returns ErrNotFound if the store does not
// hold it.
func (s *Store) Get(_ context.Context, c cid.Cid) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(append([]byte(blobPrefix), c.Bytes()...))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store get %s: %w", c, err)
	}
	return data, nil
}

// Has reports whether the store holds a blob for the CID.
func (s *Store) Has(_ context.Context, c cid.Cid) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}

	var has bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(append([]byte(blobPrefix), c.Bytes()...))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		has = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("store has %s: %w", c, err)
	}
	return has, nil
}

// GetSize returns the size in bytes of a stored blob. Returns ErrNotFound
// if the store does not hold the CID.
func (s *Store) GetSize(_ context.Context, c cid.Cid) (uint64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	var size uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(append([]byte(blobPrefix), c.Bytes()...))
		if err != nil {
			return err
		}
		size = uint64(item.ValueSize())
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("store get size %s: %w", c, err)
	}
	return size, nil
}

// GetLinks returns the CIDs a stored blob links to. A stored blob with no
// links yields an empty slice; an unknown CID yields ErrNotFound.
func (s *Store) GetLinks(ctx context.Context, c cid.Cid) ([]cid.Cid, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(append([]byte(graphPrefix), c.Bytes()...))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store get links %s: %w", c, err)
	}

	if raw == nil {
		has, err := s.Has(ctx, c)
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, ErrNotFound
		}
		return []cid.Cid{}, nil
	}
	return decodeLinks(raw)
}

// Close closes the content database. Further operations fail with
// ErrClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// encodeLinks packs CIDs as length-prefixed binary values.
func encodeLinks(links []cid.Cid) []byte {
	buf := binary.AppendUvarint(nil, uint64(len(links)))
	for _, l := range links {
		b := l.Bytes()
		buf = binary.AppendUvarint(buf, uint64(len(b)))
		buf = append(buf, b...)
	}
	return buf
}

func decodeLinks(raw []byte) ([]cid.Cid, error) {
	count, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("corrupt link record")
	}
	raw = raw[n:]

	links := make([]cid.Cid, 0, count)
	for i := uint64(0); i < count; i++ {
		size, n := binary.Uvarint(raw)
		if n <= 0 || uint64(len(raw[n:])) < size {
			return nil, fmt.Errorf("corrupt link record")
		}
		c, err := cid.Cast(raw[n : n+int(size)])
		if err != nil {
			return nil, fmt.Errorf("corrupt link record: %w", err)
		}
		links = append(links, c)
		raw = raw[n+int(size):]
	}
	return links, nil
}
